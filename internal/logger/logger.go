// Package logger provides the leveled module logging used across the API server.
package logger

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"validator-monitor/internal/config"
)

// Logger defines extended logger interface with additional features.
type Logger interface {
	// Critical logs a message at the CRITICAL level.
	Critical(args ...interface{})
	Criticalf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Warning(args ...interface{})
	Warningf(format string, args ...interface{})
	Notice(args ...interface{})
	Noticef(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	// ModuleLogger derives a logger for the given sub-module sharing the same backend.
	ModuleLogger(mod string) Logger
}

// AppLogger implements the Logger on top of the go-logging package.
type AppLogger struct {
	*logging.Logger
	backend logging.LeveledBackend
}

// New provides a new instance of the logger writing to the standard output.
func New(cfg *config.Config) Logger {
	return NewWithWriter(os.Stdout, cfg.AppName, cfg.Log.Level, cfg.Log.Format)
}

// NewWithWriter provides a new instance of the logger writing into the given writer.
func NewWithWriter(w io.Writer, name string, level string, format string) Logger {
	backend := logging.NewLogBackend(w, "", 0)

	// formatter; fall back to a plain format if the configured one is broken
	fm, err := logging.NewStringFormatter(format)
	if err != nil {
		fm = logging.MustStringFormatter("%{level:-8s} %{module}: %{message}")
	}
	fmtBackend := logging.NewBackendFormatter(backend, fm)

	// leveled backend
	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}
	lvlBackend := logging.AddModuleLevel(fmtBackend)
	lvlBackend.SetLevel(lvl, "")

	l := logging.MustGetLogger(name)
	l.SetBackend(lvlBackend)

	return &AppLogger{Logger: l, backend: lvlBackend}
}

// ModuleLogger provides a new instance of the logger for the given module.
func (a *AppLogger) ModuleLogger(mod string) Logger {
	l := logging.MustGetLogger(a.Module + "/" + mod)
	l.SetBackend(a.backend)
	return &AppLogger{Logger: l, backend: a.backend}
}
