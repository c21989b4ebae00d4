package pebble

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/kaspanet/blobdb/infrastructure/logger"
	"github.com/kaspanet/blobdb/util/panics"
)

var log = logger.RegisterSubSystem("PBLB")

// pebbleLogger routes pebble's own log output to the PBLB subsystem.
type pebbleLogger struct{}

var _ pebble.Logger = pebbleLogger{}

// Infof logs at debug level. Pebble reports every flush and compaction here.
func (pebbleLogger) Infof(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func (pebbleLogger) Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Fatalf exits the process, as pebble expects it not to return.
func (pebbleLogger) Fatalf(format string, args ...interface{}) {
	panics.Exit(log, fmt.Sprintf(format, args...))
}
