package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger(logrus.InfoLevel)

func newLogger(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(level)
	return l
}

// SetLevel parses a level name (debug, info, warn, error) and applies it
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(parsed)
	return nil
}

// Logger exposes the underlying logger for libraries that accept a Printf-style sink
func Logger() *logrus.Logger {
	return logger
}

func Printf(format string, args ...any) {
	logger.Infof(format, args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

func WithField(key string, value any) *logrus.Entry {
	return logger.WithField(key, value)
}

func WithError(err error) *logrus.Entry {
	return logger.WithError(err)
}
