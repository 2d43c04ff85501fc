package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by Unavailable for every request.
var ErrNotConfigured = errors.New("llm: no completion provider configured")

// Unavailable is a Client used when no provider credentials exist. Every
// call fails, which the pipeline degrades to its fixed fallbacks, so the
// service still answers messages without an API key.
type Unavailable struct{}

// Complete always returns ErrNotConfigured.
func (Unavailable) Complete(ctx context.Context, req Request) (Response, error) {
	return Response{}, ErrNotConfigured
}
