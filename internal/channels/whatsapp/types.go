package whatsapp

import "time"

// WebhookEvent is the top-level structure received from Meta's webhook.
type WebhookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents a single entry in the webhook payload.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change represents one change notification inside an entry.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue carries the messages delivered with a change.
type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []Contact        `json:"contacts,omitempty"`
	Messages         []InboundMessage `json:"messages,omitempty"`
}

// Metadata identifies the business number the message was sent to.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is the sender's WhatsApp profile info.
type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

// Profile holds the sender's display name.
type Profile struct {
	Name string `json:"name"`
}

// InboundMessage is one message object inside a change value.
type InboundMessage struct {
	From      string    `json:"from"`
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"`
	Type      string    `json:"type"`
	Text      *TextBody `json:"text,omitempty"`
}

// TextBody is the body of a text message, inbound or outbound.
type TextBody struct {
	Body string `json:"body"`
}

// SendRequest is the payload sent to the Graph API to send a message.
type SendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             TextBody `json:"text"`
}

// SendResponse is the response from the Graph API after sending a message.
type SendResponse struct {
	Contacts []SendContact `json:"contacts,omitempty"`
	Messages []SentMessage `json:"messages,omitempty"`
	Error    *SendError    `json:"error,omitempty"`
}

// SendContact echoes the normalized recipient.
type SendContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

// SentMessage carries the provider-assigned message id.
type SentMessage struct {
	ID string `json:"id"`
}

// SendError represents an error returned by the Graph API.
type SendError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}

// ParsedInboundMessage is the normalized result of parsing a webhook event.
type ParsedInboundMessage struct {
	SenderAddress string
	Text          string
	Type          string
	MessageID     string
	ReceivedAt    time.Time
}

// IsText reports whether the message carries a text body.
func (m ParsedInboundMessage) IsText() bool {
	return m.Type == "text"
}
