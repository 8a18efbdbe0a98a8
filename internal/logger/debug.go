//go:build debug

package logger

import (
	"go.uber.org/zap"
)

// New returns a new logger with default options.
func New() (*Logger, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return Wrap(l), nil
}

// NewFile returns a new logger and also writes the log output to files.
func NewFile(files ...string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = append(cfg.OutputPaths, files...)
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return Wrap(l), nil
}
