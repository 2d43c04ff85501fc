package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/wolfman30/leadline/internal/llm"
)

const classifierPrompt = `Classify the user's WhatsApp message into ONE intent.

Intents:
- greeting
- pricing
- services
- booking
- lead
- general

Message:
"%s"

Reply ONLY with JSON:
{ "intent": "one_intent_here" }`

var fencePattern = regexp.MustCompile("(?i)```json|```")

// Classifier labels messages with one of the closed-set intents.
type Classifier struct {
	client llm.Client
}

// NewClassifier creates an LLM-backed intent classifier.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify returns the intent for the message. On any failure (transport,
// malformed response, label outside the set) it returns IntentGeneral
// together with the error; callers log the error and keep the fallback.
func (c *Classifier) Classify(ctx context.Context, message string) (Intent, error) {
	resp, err := c.client.Complete(ctx, llm.Request{
		Prompt:      fmt.Sprintf(classifierPrompt, message),
		MaxTokens:   50,
		Temperature: -1,
	})
	if err != nil {
		return IntentGeneral, fmt.Errorf("intent: classification request failed: %w", err)
	}

	parsed, err := ParseResponse(resp.Text)
	if err != nil {
		return IntentGeneral, err
	}
	return parsed, nil
}

// ParseResponse parses the model's structured reply. It strips code-fence
// markup the model sometimes wraps JSON in, then requires a valid closed-set
// label. The general fallback is substituted by the caller, not here.
func ParseResponse(raw string) (Intent, error) {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))

	var result struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return IntentGeneral, fmt.Errorf("intent: unparseable response %q: %w", raw, err)
	}

	label := Intent(strings.ToLower(strings.TrimSpace(result.Intent)))
	if !label.Valid() {
		return IntentGeneral, fmt.Errorf("intent: label %q outside the closed set", result.Intent)
	}
	return label, nil
}
