package notify

import (
	"context"
	"fmt"

	"github.com/wolfman30/leadline/internal/leads"
	"github.com/wolfman30/leadline/pkg/logging"
)

// HotLeadNotifier emails the sales team when a lead scores HOT.
type HotLeadNotifier struct {
	sender     EmailSender
	salesEmail string
	logger     *logging.Logger
}

// NewHotLeadNotifier creates the notifier. Returns nil when either the
// sender or the sales address is missing, so callers can skip wiring.
func NewHotLeadNotifier(sender EmailSender, salesEmail string, logger *logging.Logger) *HotLeadNotifier {
	if sender == nil || salesEmail == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HotLeadNotifier{sender: sender, salesEmail: salesEmail, logger: logger}
}

// NotifyHotLead sends the escalation email. Best effort: the error is
// returned for logging but the pipeline proceeds regardless.
func (n *HotLeadNotifier) NotifyHotLead(ctx context.Context, record leads.Record) error {
	msg := EmailMessage{
		To:      n.salesEmail,
		ToName:  "Sales",
		Subject: fmt.Sprintf("HOT lead: %s (%s)", record.Name, record.Phone),
		Body: fmt.Sprintf(
			"A new HOT lead came in over WhatsApp.\n\nName: %s\nPhone: %s\nIntent: %s\nMessage: %s\nTime: %s\n",
			record.Name, record.Phone, record.Intent, record.Message, record.FormattedTime(),
		),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: hot lead escalation: %w", err)
	}
	return nil
}
