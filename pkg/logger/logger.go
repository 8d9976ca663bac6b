package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

var (
	verboseMode bool
	base        = log.New()
)

func init() {
	// Operator logs go to stderr so stdout stays clean for reports
	base.SetOutput(os.Stderr)
	base.SetLevel(log.InfoLevel)
	base.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	verboseMode = verbose
	if verbose {
		base.SetLevel(log.DebugLevel)
		return
	}
	base.SetLevel(log.InfoLevel)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	return verboseMode
}

// SetOutput redirects operator logs, mostly useful in tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// WithFields returns an entry carrying structured fields, e.g. a run id.
func WithFields(fields log.Fields) *log.Entry {
	return base.WithFields(fields)
}

// Debugf logs a formatted debug message if verbose mode is enabled.
func Debugf(format string, v ...interface{}) {
	base.Debugf(format, v...)
}

// Infof logs a formatted informational message.
func Infof(format string, v ...interface{}) {
	base.Infof(format, v...)
}

// Warnf logs a formatted warning.
func Warnf(format string, v ...interface{}) {
	base.Warnf(format, v...)
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) {
	base.Errorf(format, v...)
}
