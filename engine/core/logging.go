package core

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// LogLevel mirrors the levels understood by the underlying logger.
type LogLevel = log.Level

const (
	DebugLevel LogLevel = log.DebugLevel
	InfoLevel  LogLevel = log.InfoLevel
	WarnLevel  LogLevel = log.WarnLevel
	ErrorLevel LogLevel = log.ErrorLevel
	FatalLevel LogLevel = log.FatalLevel
)

var once sync.Once

type logger struct {
	*log.Logger

	// keys of the warnings already reported through LogWarnOnce
	warned sync.Map
}

var singleton *logger

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Prefix:          "FPSAnim 🎯 ",
				// the wrappers below add one frame between the caller and the logger
				CallerOffset: 1,
			})
			l.SetLevel(log.DebugLevel)
			singleton = &logger{Logger: l}
		})
	return singleton
}

// SetLogLevel changes the minimum level of the engine logger.
func SetLogLevel(level LogLevel) {
	getLogger().SetLevel(level)
}

// ParseLogLevel converts a level name ("debug", "info", ...) into a LogLevel.
func ParseLogLevel(name string) (LogLevel, error) {
	level, err := log.ParseLevel(name)
	if err != nil {
		return InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLogLevel, name)
	}
	return level, nil
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

// LogWarnOnce reports a warning the first time a given key is seen. Used by
// per-frame code paths that must not flood the output.
func LogWarnOnce(key string, msg string, args ...interface{}) {
	l := getLogger()
	if _, loaded := l.warned.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	l.Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
