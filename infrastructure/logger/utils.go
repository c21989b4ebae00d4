package logger

import (
	"io"
	"time"
)

// LogAndMeasureExecutionTime logs the start of functionName at debug level
// and returns a function that logs its end along with the elapsed time.
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s start", functionName)
	return func() {
		log.Debugf("%s end. Took: %s", functionName, time.Since(start))
	}
}

// nopCloser wraps a writer the backend must not close, such as os.Stdout.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
