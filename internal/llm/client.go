// Package llm abstracts the text completion capability used for intent
// classification and reply generation.
package llm

import "context"

// Request is a single-turn completion request.
type Request struct {
	// System carries style and role instructions, separate from the prompt.
	System string
	// Prompt is the user-facing instruction plus the message text.
	Prompt string
	// MaxTokens caps the response length; zero means provider default.
	MaxTokens int32
	// Temperature below zero means provider default.
	Temperature float32
}

// Response is the completion result.
type Response struct {
	Text       string
	StopReason string
}

// Client is implemented by completion providers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
