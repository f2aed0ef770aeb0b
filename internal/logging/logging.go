// Package logging builds the structured logger used by the driver and
// the CLI (spec SPEC_FULL.md §A.1.2). Per-function lowering itself
// stays log-free; only orchestration code logs.
package logging

import "go.uber.org/zap"

// New builds a *zap.SugaredLogger. verbose selects zap's development
// config (human-readable, colorized, debug level); otherwise the
// production config is used (JSON, info level), matching the
// distinction cmd/nirc's --verbose flag makes.
func New(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Noop returns a logger that discards everything, for use in tests
// that exercise the driver without caring about log output.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
