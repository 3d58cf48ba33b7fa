package log

import (
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Log struct singleton
type Log struct {
	AppName  string
	LogLevel int
	Logger   *logrus.Logger
}

var logger = Log{
	AppName:  "SETTLEMENT_SERVICE",
	LogLevel: levelDebug,
	Logger:   logrus.New(),
}

const (
	levelDebug = 1
	levelError = 2
)

var mapOfLogLevel = map[string]int{
	"DEBUG": levelDebug,
	"INFO":  levelDebug,
	"ERROR": levelError,
}

// InitLogger initialize logger from Viper
func InitLogger(v *viper.Viper) {
	levelStr := v.GetString("log.level")
	level, ok := mapOfLogLevel[levelStr]
	if !ok {
		level = levelDebug
	}

	logger = Log{
		AppName:  v.GetString("app.name"),
		LogLevel: level,
		Logger:   newLogrusLogger(levelStr, os.Stdout),
	}
}

// GetLogger return singleton
func GetLogger() Log {
	return logger
}

// NewLogger builds a standalone logger writing to out. Used by tests and tools.
func NewLogger(appName, level string, out io.Writer) Log {
	l, ok := mapOfLogLevel[level]
	if !ok {
		l = levelDebug
	}
	return Log{
		AppName:  appName,
		LogLevel: l,
		Logger:   newLogrusLogger(level, out),
	}
}

func newLogrusLogger(levelStr string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(out)
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// -----------------------------
// Info
func (l Log) Info(context, message, scope, meta string) {
	if l.LogLevel > levelDebug || l.Logger == nil {
		return
	}
	_, file, line, _ := runtime.Caller(1)
	l.Logger.WithFields(logrus.Fields{
		"service": l.AppName,
		"context": context,
		"scope":   scope,
		"meta":    meta,
		"file":    file,
		"line":    line,
	}).Info(message)
}

// -----------------------------
// Error
func (l Log) Error(context, message, scope, meta string) {
	if l.LogLevel > levelError || l.Logger == nil {
		return
	}
	_, file, line, _ := runtime.Caller(1)
	_, file2, line2, _ := runtime.Caller(2)
	l.Logger.WithFields(logrus.Fields{
		"service": l.AppName,
		"context": context,
		"scope":   scope,
		"meta":    meta,
		"file1":   file,
		"line1":   line,
		"file2":   file2,
		"line2":   line2,
	}).Error(message)
}

// -----------------------------
// Slow logs operations that exceeded their latency budget, e.g. lock waits.
func (l Log) Slow(context, message, scope, meta string) {
	if l.LogLevel > levelDebug || l.Logger == nil {
		return
	}
	_, file, line, _ := runtime.Caller(2)
	l.Logger.WithFields(logrus.Fields{
		"service": l.AppName,
		"context": context,
		"scope":   scope,
		"meta":    meta,
		"file":    file,
		"line":    line,
	}).Warn("[SLOW] " + message)
}
