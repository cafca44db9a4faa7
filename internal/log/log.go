// Package log wraps the process-wide structured logger. All diagnostics
// go to stderr so stdout stays clean for command output and the MCP
// stdio transport. Secret material must never be passed to these
// functions.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	logger.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts verbosity from a config string. Unknown levels keep
// the default.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	logger.SetLevel(parsed)
}

// WithField returns an entry carrying one structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return logger.WithField(key, value)
}

// WithError returns an entry carrying an error field.
func WithError(err error) *logrus.Entry {
	return logger.WithError(err)
}

func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
