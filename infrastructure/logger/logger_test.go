package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type bufferWriteCloser struct {
	sync.Mutex
	bytes.Buffer
	closed bool
}

func (b *bufferWriteCloser) Write(p []byte) (int, error) {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.Write(p)
}

func (b *bufferWriteCloser) Close() error {
	b.Lock()
	defer b.Unlock()
	b.closed = true
	return nil
}

func TestBackendWritesByLevel(t *testing.T) {
	backend := NewBackendWithFlags(0)
	infoWriter := &bufferWriteCloser{}
	warnWriter := &bufferWriteCloser{}
	err := backend.AddLogWriter(infoWriter, LevelInfo)
	if err != nil {
		t.Fatalf("TestBackendWritesByLevel: AddLogWriter unexpectedly failed: %s", err)
	}
	err = backend.AddLogWriter(warnWriter, LevelWarn)
	if err != nil {
		t.Fatalf("TestBackendWritesByLevel: AddLogWriter unexpectedly failed: %s", err)
	}
	err = backend.Run()
	if err != nil {
		t.Fatalf("TestBackendWritesByLevel: Run unexpectedly failed: %s", err)
	}

	log := backend.Logger("TEST")
	log.SetLevel(LevelDebug)
	log.Tracef("trace %d", 1)
	log.Debugf("debug %d", 2)
	log.Infof("info %d", 3)
	log.Warnf("warn %d", 4)
	backend.Close()

	if !infoWriter.closed || !warnWriter.closed {
		t.Fatalf("TestBackendWritesByLevel: writers were not closed")
	}
	infoOutput := infoWriter.String()
	if strings.Contains(infoOutput, "trace 1") || strings.Contains(infoOutput, "debug 2") {
		t.Fatalf("TestBackendWritesByLevel: info writer got low level lines: %q", infoOutput)
	}
	if !strings.Contains(infoOutput, "[INF] TEST: info 3") || !strings.Contains(infoOutput, "[WRN] TEST: warn 4") {
		t.Fatalf("TestBackendWritesByLevel: info writer is missing lines: %q", infoOutput)
	}
	warnOutput := warnWriter.String()
	if strings.Contains(warnOutput, "info 3") || !strings.Contains(warnOutput, "warn 4") {
		t.Fatalf("TestBackendWritesByLevel: unexpected warn writer output: %q", warnOutput)
	}
}

func TestLoggerDropsWhileNotRunning(t *testing.T) {
	backend := NewBackendWithFlags(0)
	log := backend.Logger("TEST")
	// Must not block even though nothing drains the channel.
	for i := 0; i < 2*entriesBuffer; i++ {
		log.Criticalf("dropped %d", i)
	}
}

func TestParseAndSetLogLevels(t *testing.T) {
	first := RegisterSubSystem("TST1")
	second := RegisterSubSystem("TST2")
	if RegisterSubSystem("TST1") != first {
		t.Fatalf("TestParseAndSetLogLevels: RegisterSubSystem returned a new logger for an existing tag")
	}

	err := ParseAndSetLogLevels("debug")
	if err != nil {
		t.Fatalf("TestParseAndSetLogLevels: ParseAndSetLogLevels unexpectedly failed: %s", err)
	}
	if first.Level() != LevelDebug || second.Level() != LevelDebug {
		t.Fatalf("TestParseAndSetLogLevels: unexpected levels %s, %s", first.Level(), second.Level())
	}

	err = ParseAndSetLogLevels("TST1=warn,TST2=trace")
	if err != nil {
		t.Fatalf("TestParseAndSetLogLevels: ParseAndSetLogLevels unexpectedly failed: %s", err)
	}
	if first.Level() != LevelWarn || second.Level() != LevelTrace {
		t.Fatalf("TestParseAndSetLogLevels: unexpected levels %s, %s", first.Level(), second.Level())
	}

	tests := []string{"loud", "TST1", "NOPE=info", "TST1=loud"}
	for _, test := range tests {
		if err := ParseAndSetLogLevels(test); err == nil {
			t.Errorf("TestParseAndSetLogLevels: expected an error for %q", test)
		}
	}
}

func TestBackendCloseTwice(t *testing.T) {
	backend := NewBackendWithFlags(0)
	writer := &bufferWriteCloser{}
	err := backend.AddLogWriter(writer, LevelInfo)
	if err != nil {
		t.Fatalf("TestBackendCloseTwice: AddLogWriter unexpectedly failed: %s", err)
	}
	err = backend.Run()
	if err != nil {
		t.Fatalf("TestBackendCloseTwice: Run unexpectedly failed: %s", err)
	}
	err = backend.Run()
	if err != ErrBackendRunning {
		t.Fatalf("TestBackendCloseTwice: second Run returned %v", err)
	}
	err = backend.AddLogWriter(&bufferWriteCloser{}, LevelInfo)
	if err != ErrBackendRunning {
		t.Fatalf("TestBackendCloseTwice: AddLogWriter on a running backend returned %v", err)
	}

	backend.Logger("TEST").Infof("before close")
	backend.Close()
	backend.Close()
	if backend.IsRunning() {
		t.Fatalf("TestBackendCloseTwice: backend still running after Close")
	}
	if !strings.Contains(writer.String(), "before close") {
		t.Fatalf("TestBackendCloseTwice: queued line was not written: %q", writer.String())
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		ok       bool
	}{
		{input: "trace", expected: LevelTrace, ok: true},
		{input: "DBG", expected: LevelDebug, ok: true},
		{input: "Warn", expected: LevelWarn, ok: true},
		{input: "crt", expected: LevelCritical, ok: true},
		{input: "off", expected: LevelOff, ok: true},
		{input: "verbose", expected: LevelInfo, ok: false},
	}
	for _, test := range tests {
		level, ok := LevelFromString(test.input)
		if level != test.expected || ok != test.ok {
			t.Errorf("TestLevelFromString: %q: got (%s, %t), want (%s, %t)",
				test.input, level, ok, test.expected, test.ok)
		}
	}
	if Level(100).String() != "OFF" {
		t.Errorf("TestLevelFromString: out of range level printed as %s", Level(100))
	}
}

func TestFlagsFromEnv(t *testing.T) {
	if flagsFromEnv("") != 0 {
		t.Fatalf("TestFlagsFromEnv: empty value set flags")
	}
	flags := flagsFromEnv("longfile, shortfile")
	if flags&LogFlagLongFile == 0 || flags&LogFlagShortFile == 0 {
		t.Fatalf("TestFlagsFromEnv: unexpected flags %b", flags)
	}
}
