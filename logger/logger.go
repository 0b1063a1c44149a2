// Package logger builds the zap loggers used by the wisard commands
package logger

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging
const (
	FieldModel   = "model"
	FieldDataset = "dataset"
	FieldLabel   = "label"
	FieldCount   = "count"
)

// New builds a logger at level. Development loggers print human readable
// console output, production loggers print JSON.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "log level %q", level),
			"use one of debug, info, warn, error")
	}
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
