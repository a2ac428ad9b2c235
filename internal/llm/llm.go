// Package llm abstracts the natural-language understanding collaborator.
// The pipeline only depends on the Client interface; a Gemini-backed
// implementation and a deterministic fake (mock/offline mode) both satisfy
// it, so either can be substituted without touching the parser.
package llm

import (
	"context"
	"errors"

	"diagen/internal/diagram"
)

var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

type Client interface {
	Name() string

	// ExtractGraph asks the model to break a description into components,
	// clusters and connections. Implementations degrade to a raw-text
	// payload instead of failing when structured output is unavailable.
	ExtractGraph(ctx context.Context, description string) (diagram.Payload, error)

	// Reply produces a conversational assistant answer. history carries the
	// trailing conversation turns, already formatted, possibly empty.
	Reply(ctx context.Context, message, history string) (string, error)

	Close() error
}
