package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
}

// Configure sets the level, the formatter ("json" or "text") and an optional
// log file. An empty path keeps logging to stdout only.
func Configure(level, format, path string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	return nil
}

// Writer returns a writer that logs every line at info level. Used to route
// gin's access log through the same output.
func Writer() *io.PipeWriter {
	return log.WriterLevel(logrus.InfoLevel)
}

// Logger exposes the underlying logrus logger for structured fields.
func Logger() *logrus.Logger {
	return log
}

func caller(skip int) string {
	_, f, l, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", f, l)
}

func logWithLevel(level logrus.Level, format string, v ...interface{}) {
	if !log.IsLevelEnabled(level) {
		return
	}
	log.WithField("caller", caller(3)).Logf(level, format, v...)
}

// WrapError prefixes err with the caller position, keeping it unwrappable.
func WrapError(err error, message string) error {
	if message != "" {
		return fmt.Errorf("\n%s: %s: %w", caller(2), message, err)
	}
	return fmt.Errorf("\n%s: %w", caller(2), err)
}

func Debug(format string, v ...interface{}) {
	logWithLevel(logrus.DebugLevel, format, v...)
}

func Info(format string, v ...interface{}) {
	logWithLevel(logrus.InfoLevel, format, v...)
}

func Warn(format string, v ...interface{}) {
	logWithLevel(logrus.WarnLevel, format, v...)
}

func Error(format string, v ...interface{}) {
	logWithLevel(logrus.ErrorLevel, format, v...)
}

func Fatal(format string, v ...interface{}) {
	logWithLevel(logrus.FatalLevel, format, v...)
	os.Exit(1)
}
