package reply

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wolfman30/leadline/internal/intent"
	"github.com/wolfman30/leadline/internal/llm"
)

type fakeLLMClient struct {
	response string
	err      error
	lastReq  llm.Request
}

func (f *fakeLLMClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.response}, nil
}

func TestGenerate(t *testing.T) {
	client := &fakeLLMClient{response: "Hi John! Our pricing starts at $99. Would you like a detailed quote?"}
	g := NewGenerator(client)

	got, err := g.Generate(context.Background(), intent.IntentPricing, "what's your pricing?", "John")
	if err != nil {
		t.Fatal(err)
	}
	if got != client.response {
		t.Errorf("unexpected reply: %q", got)
	}
	if !strings.Contains(client.lastReq.Prompt, "User intent: pricing") {
		t.Errorf("prompt missing intent: %q", client.lastReq.Prompt)
	}
	if !strings.Contains(client.lastReq.Prompt, "John") {
		t.Errorf("prompt missing name: %q", client.lastReq.Prompt)
	}
	if !strings.Contains(client.lastReq.System, "No emojis") {
		t.Errorf("system prompt missing style rules: %q", client.lastReq.System)
	}
}

func TestGenerateOmitsNameContextWhenAbsent(t *testing.T) {
	client := &fakeLLMClient{response: "Hello! How can we help today?"}
	g := NewGenerator(client)

	if _, err := g.Generate(context.Background(), intent.IntentGreeting, "hello", ""); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(client.lastReq.Prompt, "user's name") {
		t.Errorf("prompt should not mention a name: %q", client.lastReq.Prompt)
	}
}

func TestGenerateFallback(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeLLMClient
	}{
		{"transport error", &fakeLLMClient{err: errors.New("timeout")}},
		{"empty response", &fakeLLMClient{response: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.client)
			got, err := g.Generate(context.Background(), intent.IntentGeneral, "hi", "")
			if err == nil {
				t.Fatal("expected error")
			}
			if got != Fallback {
				t.Errorf("expected fallback sentence verbatim, got %q", got)
			}
		})
	}
}
