// Package logging sets up the structured logger every other package
// takes by constructor injection, the way vibetunnel's server packages
// are built: callers receive a *zap.Logger (or an interface over one)
// rather than reaching for a package-level global.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level names the verbosity a New logger runs at.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func (l Level) zapLevel() (zapcore.Level, error) {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel, nil
	case LevelInfo, "":
		return zapcore.InfoLevel, nil
	case LevelWarn:
		return zapcore.WarnLevel, nil
	case LevelError:
		return zapcore.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", l)
	}
}

// New builds a console-encoded zap.Logger at the given level. devcon
// runs interactively against a human at a terminal, so it gets the
// readable console encoder rather than devcond's JSON one.
func New(level Level) (*zap.Logger, error) {
	lvl, err := level.zapLevel()
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// NewJSON builds a JSON-encoded zap.Logger suitable for a long-running
// server's log aggregation, the way vibetunnel's daemon processes log.
func NewJSON(level Level) (*zap.Logger, error) {
	lvl, err := level.zapLevel()
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Nop returns a logger that discards everything, for tests and
// call sites that haven't been handed a real one.
func Nop() *zap.Logger { return zap.NewNop() }
