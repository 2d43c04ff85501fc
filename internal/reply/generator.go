// Package reply generates short outbound replies for inbound messages.
package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/leadline/internal/intent"
	"github.com/wolfman30/leadline/internal/llm"
)

// Fallback is sent verbatim whenever generation fails.
const Fallback = "Thanks for reaching out. Could you please share a bit more detail?"

const systemPrompt = `You are a professional WhatsApp business assistant.

Write a short WhatsApp reply.
Rules:
- Friendly and professional
- No emojis
- No AI mention
- Under 3 lines
- Ask a follow-up question if helpful`

// Generator produces replies with a fixed style contract.
type Generator struct {
	client llm.Client
}

// NewGenerator creates an LLM-backed reply generator.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate returns the reply text for the message. On any failure it returns
// Fallback together with the error; callers log the error and send the
// fallback anyway.
func (g *Generator) Generate(ctx context.Context, in intent.Intent, message, name string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "User intent: %s\n", in)
	if name != "" {
		fmt.Fprintf(&b, "The user's name is %s. Use their name naturally in the reply if it feels appropriate.\n", name)
	}
	fmt.Fprintf(&b, "\nUser message:\n%q", message)

	resp, err := g.client.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      b.String(),
		Temperature: -1,
	})
	if err != nil {
		return Fallback, fmt.Errorf("reply: generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Fallback, fmt.Errorf("reply: empty generation result")
	}
	return text, nil
}
