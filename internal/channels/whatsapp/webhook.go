package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/wolfman30/leadline/pkg/logging"
)

// WebhookHandler handles WhatsApp webhook verification and inbound messages.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	onMessage   func(msg ParsedInboundMessage)
	logger      *logging.Logger
}

// NewWebhookHandler creates a new webhook handler.
// onMessage is called for each message found in a delivery, text or not;
// the pipeline decides what to do with non-text messages.
func NewWebhookHandler(verifyToken, appSecret string, onMessage func(ParsedInboundMessage), logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		onMessage:   onMessage,
		logger:      logger,
	}
}

// HandleVerification handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("webhook verified")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// maxWebhookBodyBytes caps inbound deliveries. Real Cloud API payloads are
// a few KB; anything near the cap is not Meta.
const maxWebhookBodyBytes = 1 << 20

// HandleInbound handles POST webhook events (incoming messages).
// Meta retries deliveries that are not acked quickly, so the 200 is written
// before any message processing happens.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Payload Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// Signature check only applies when an app secret is configured.
	if h.appSecret != "" {
		signature := r.Header.Get("X-Hub-Signature-256")
		if !VerifySignature(h.appSecret, body, signature) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	h.logger.Debug("raw webhook body", "body", string(body))

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	for _, msg := range ParseWebhookEvent(event) {
		if h.onMessage != nil {
			h.onMessage(msg)
		}
	}
}

// ParseWebhookEvent extracts ParsedInboundMessages from a webhook event.
func ParseWebhookEvent(event WebhookEvent) []ParsedInboundMessage {
	var messages []ParsedInboundMessage

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				parsed := ParsedInboundMessage{
					SenderAddress: m.From,
					Type:          m.Type,
					MessageID:     m.ID,
					ReceivedAt:    parseTimestamp(m.Timestamp),
				}
				if m.Text != nil {
					parsed.Text = m.Text.Body
				}
				messages = append(messages, parsed)
			}
		}
	}

	return messages
}

// parseTimestamp converts Meta's unix-seconds string; falls back to now.
func parseTimestamp(ts string) time.Time {
	if secs, err := strconv.ParseInt(ts, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0)
	}
	return time.Now()
}

// VerifySignature verifies the X-Hub-Signature-256 header.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" || signature == "" {
		return false
	}

	// Signature format: "sha256=<hex>"
	const prefix = "sha256="
	if len(signature) <= len(prefix) {
		return false
	}
	sigHex := signature[len(prefix):]

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(sigHex))
}
