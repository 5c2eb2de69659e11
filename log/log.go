// Package log provides a thread-safe, structured logging infrastructure with filesystem-based persistence.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tsukinaha/tsukimi-sub001/constant"
	"github.com/tsukinaha/tsukimi-sub001/filesystem"
	"github.com/tsukinaha/tsukimi-sub001/key"
	"github.com/tsukinaha/tsukimi-sub001/where"
)

// enabled indicates the persistent logging state for the active application instance.
// Emissions come from listener and dispatch goroutines, hence the atomic.
var enabled atomic.Bool

// Setup initializes the logging subsystem, including file handles, formatting, and severity levels based on global configuration.
// If logging is disabled, all subsequent log emissions are silently discarded.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		enabled.Store(false)
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	filename := fmt.Sprintf("%s-%s.log", constant.App, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	configure(f)
	enabled.Store(true)
	return nil
}

// SetupWriter directs log output to w with the configured format and level. Used by probe to log to stderr.
func SetupWriter(w io.Writer) {
	configure(w)
	enabled.Store(true)
}

func configure(w io.Writer) {
	logrus.SetOutput(w)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// Enabled reports whether log emissions reach a sink.
func Enabled() bool {
	return enabled.Load()
}

// WithField returns an entry carrying a structured field, or a discarding entry when logging is off.
func WithField(name string, value any) *logrus.Entry {
	if !enabled.Load() {
		return discard.WithField(name, value)
	}
	return logrus.WithField(name, value)
}

var discard = &logrus.Logger{Out: io.Discard, Formatter: new(logrus.TextFormatter), Level: logrus.PanicLevel}

// Severity-specific emissions, proxied to logrus when logging is enabled.

func Error(args ...interface{}) {
	if enabled.Load() {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...interface{}) {
	if enabled.Load() {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...interface{}) {
	if enabled.Load() {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...interface{}) {
	if enabled.Load() {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Debugf(format, args...)
	}
}
func Tracef(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Tracef(format, args...)
	}
}
