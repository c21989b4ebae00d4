package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const normalLogSize = 512

// entriesBuffer is the number of formatted lines that may wait for the
// backend goroutine before loggers block.
const entriesBuffer = 64

// Flags to modify Backend's behavior.
const (
	// LogFlagLongFile adds the full path and line number of the logging
	// callsite to every line, e.g. /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile adds the file name and line number of the logging
	// callsite, e.g. main.go:123. Takes precedence over LogFlagLongFile.
	LogFlagShortFile
)

// logFlagsEnv holds a comma separated list of "longfile" and "shortfile".
const logFlagsEnv = "BLOBDB_LOGFLAGS"

// defaultFlags is a variable rather than set from init() because BackendLog
// is built from it during variable initialization.
var defaultFlags = flagsFromEnv(os.Getenv(logFlagsEnv))

func flagsFromEnv(value string) uint32 {
	var flags uint32
	for _, flag := range strings.Split(value, ",") {
		switch strings.TrimSpace(flag) {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return flags
}

// ErrBackendRunning is returned when a Backend is reconfigured or started
// after Run was called.
var ErrBackendRunning = errors.New("the logger is already running")

// RotationOptions control when log files are rotated and how many rotated
// files are kept.
type RotationOptions struct {
	ThresholdKB int64
	MaxRolls    int
}

// DefaultRotationOptions rotate at 100MB and keep the last 8 files.
var DefaultRotationOptions = RotationOptions{
	ThresholdKB: 100 * 1000,
	MaxRolls:    8,
}

// levelWriter receives every line at minLevel or above.
type levelWriter struct {
	io.WriteCloser
	minLevel Level
}

// Backend serializes the lines of all its subsystem loggers through a
// single goroutine that fans them out to the registered writers.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []levelWriter
	entries   chan logEntry
	drained   chan struct{}
	closeOnce sync.Once
}

// NewBackendWithFlags creates a Backend using flags instead of the ones
// read from BLOBDB_LOGFLAGS.
func NewBackendWithFlags(flags uint32) *Backend {
	return &Backend{
		flag:    flags,
		entries: make(chan logEntry, entriesBuffer),
		drained: make(chan struct{}),
	}
}

// NewBackend creates a new logger backend.
func NewBackend() *Backend {
	return NewBackendWithFlags(defaultFlags)
}

// AddLogWriter adds a writer receiving lines at logLevel and above. The
// writer is closed together with the backend.
func (b *Backend) AddLogWriter(writer io.WriteCloser, logLevel Level) error {
	if b.IsRunning() {
		return ErrBackendRunning
	}
	b.writers = append(b.writers, levelWriter{WriteCloser: writer, minLevel: logLevel})
	return nil
}

// AddLogFile adds a rotated log file using DefaultRotationOptions. The file
// and its directory are created if needed.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddRotatedLogFile(logFile, logLevel, DefaultRotationOptions)
}

// AddRotatedLogFile adds a log file receiving lines at logLevel and above,
// rotated according to options.
func (b *Backend) AddRotatedLogFile(logFile string, logLevel Level, options RotationOptions) error {
	if b.IsRunning() {
		return ErrBackendRunning
	}
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	fileRotator, err := rotator.New(logFile, options.ThresholdKB, false, options.MaxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create file rotator for %s", logFile)
	}
	return b.AddLogWriter(fileRotator, logLevel)
}

// Run starts the goroutine writing queued lines. It may only be called once.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return ErrBackendRunning
	}
	go func() {
		defer close(b.drained)
		defer func() {
			if err := recover(); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Fatal error in logger.Backend goroutine: %+v\n", err)
				_, _ = fmt.Fprintf(os.Stderr, "Goroutine stacktrace: %s\n", debug.Stack())
			}
		}()
		for entry := range b.entries {
			for _, writer := range b.writers {
				if entry.level >= writer.minLevel {
					_, _ = writer.Write(entry.line)
				}
			}
		}
	}()
	return nil
}

// IsRunning returns whether Run was called and Close wasn't.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close writes out the queued lines, then closes every writer. Calling it
// more than once is a no-op.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		wasRunning := atomic.SwapUint32(&b.isRunning, 0) != 0
		close(b.entries)
		if wasRunning {
			<-b.drained
		}
		for _, writer := range b.writers {
			_ = writer.Close()
		}
	})
}

// Logger returns a new logger for the subsystem identified by subsystemTag,
// included in every line it writes. It logs at LevelInfo and above until
// SetLevel is called.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{lvl: LevelInfo, tag: subsystemTag, b: b, entries: b.entries}
}
