// Package logger provides the structured loggers of the dataflow tools.
//
// The default build logs in zap's production format; build with the debug
// tag for the development format.
package logger

import (
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Logger encapsulates a Logger and module which it belongs to.
type Logger struct {
	*zap.SugaredLogger
	module string
}

// Module returns (stylised) module name.
func (l *Logger) Module() string {
	return l.module
}

// With returns a Logger sharing the output of l for module.
func (l *Logger) With(module string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger, module: color.GreenString(module)}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Wrap returns a Logger writing to l.
func Wrap(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}
