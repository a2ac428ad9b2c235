// Package logging builds the process-wide zap logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a development logger for local environments and a production
// JSON logger otherwise.
func New(env string) (*zap.Logger, error) {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
