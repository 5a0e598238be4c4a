// Package log writes the session diary: one file per day under where.Logs(),
// or nothing at all when logs.write is off.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tvzap/tvzap/constant"
	"github.com/tvzap/tvzap/filesystem"
	"github.com/tvzap/tvzap/key"
	"github.com/tvzap/tvzap/where"
)

// Fields annotates a single entry, e.g. the channel being loaded.
type Fields = logrus.Fields

var logger = newDiscarding()

func newDiscarding() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// FileName is the name of today's log file.
func FileName(now time.Time) string {
	return fmt.Sprintf("%s-%s.log", constant.App, now.Format(time.DateOnly))
}

// Setup points the logger at today's file. With logs.write off every entry is dropped.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		logger = newDiscarding()
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return fmt.Errorf("log directory is not set")
	}

	path := filepath.Join(dir, FileName(time.Now()))
	f, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, os.ModePerm)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)
	l.SetLevel(parseLevel(viper.GetString(key.LogsLevel)))

	if viper.GetBool(key.LogsJson) {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	logger = l
	return nil
}

// parseLevel falls back to info for anything logrus does not know.
func parseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func Error(args ...any)                 { logger.Error(args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Warn(args ...any)                  { logger.Warn(args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Info(args ...any)                  { logger.Info(args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Debug(args ...any)                 { logger.Debug(args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
func Tracef(format string, args ...any) { logger.Tracef(format, args...) }
