package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wolfman30/leadline/internal/channels/whatsapp"
	"github.com/wolfman30/leadline/pkg/logging"
)

// MessageSender is the outbound transport used by the operator endpoint.
type MessageSender interface {
	SendTextMessage(ctx context.Context, to, text string) (*whatsapp.SendResponse, error)
}

// SendMessageHandler exposes outbound sending as a direct operator command.
type SendMessageHandler struct {
	sender MessageSender
	logger *logging.Logger
}

// NewSendMessageHandler creates the handler.
func NewSendMessageHandler(sender MessageSender, logger *logging.Logger) *SendMessageHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SendMessageHandler{sender: sender, logger: logger}
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type sendMessageResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Handle handles POST /send-message requests.
func (h *SendMessageHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, sendMessageResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, sendMessageResponse{
			Success: false,
			Error:   "Missing phone or message",
		})
		return
	}

	resp, err := h.sender.SendTextMessage(r.Context(), req.Phone, req.Message)
	if err != nil {
		h.logger.Error("operator send failed", "phone", req.Phone, "error", err)
		writeJSON(w, http.StatusInternalServerError, sendMessageResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.logger.Info("operator message sent", "phone", req.Phone)
	writeJSON(w, http.StatusOK, sendMessageResponse{
		Success: true,
		Data:    resp,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
