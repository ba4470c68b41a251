// Package logging constructs the structured logger used across the
// pipeline.
package logging

import "go.uber.org/zap"

// New returns a zap logger: a human-readable development logger in debug
// mode, a JSON production logger otherwise. Construction failures fall
// back to a no-op logger rather than aborting the run.
func New(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
