// Package pipeline turns one inbound WhatsApp message into a persisted lead
// record and an outbound reply.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/wolfman30/leadline/internal/intent"
	"github.com/wolfman30/leadline/internal/leads"
	"github.com/wolfman30/leadline/internal/observability/metrics"
	"github.com/wolfman30/leadline/pkg/logging"
)

// EscalationSentence is appended to the reply when a lead scores HOT.
const EscalationSentence = "\n\nOur team will contact you shortly with detailed pricing."

// InboundEvent is one received message, normalized at the channel boundary.
type InboundEvent struct {
	SenderAddress string
	RawText       string
	Type          string
	MessageID     string
	ReceivedAt    time.Time
}

// Classifier labels a message with an intent. On failure it returns the
// general fallback together with the error.
type Classifier interface {
	Classify(ctx context.Context, message string) (intent.Intent, error)
}

// Generator produces the reply text. On failure it returns the fixed
// fallback together with the error.
type Generator interface {
	Generate(ctx context.Context, in intent.Intent, message, name string) (string, error)
}

// Sender delivers the reply to the sender's channel address.
type Sender interface {
	SendText(ctx context.Context, to, text string) error
}

// Deduper claims a message id, returning false on a redelivery.
type Deduper interface {
	MarkProcessed(ctx context.Context, provider, messageID string) (bool, error)
}

// HotNotifier alerts the sales team about a HOT lead.
type HotNotifier interface {
	NotifyHotLead(ctx context.Context, record leads.Record) error
}

// Outcome reports what happened to one event. The transport always acks
// regardless; this exists for logging, metrics and tests.
type Outcome struct {
	Processed bool
	Duplicate bool
	Name      string
	Intent    intent.Intent
	Score     leads.Score
	Persisted bool
	Reply     string
	Sent      bool
}

// Config carries the orchestrator's collaborators. Sink, Classifier,
// Generator and Sender are required; Dedup and Notifier are optional.
type Config struct {
	Classifier Classifier
	Generator  Generator
	Sink       leads.Sink
	Sender     Sender
	Dedup      Deduper
	Notifier   HotNotifier
	Metrics    *metrics.PipelineMetrics
	Logger     *logging.Logger
}

// Orchestrator sequences the per-event pipeline stages.
type Orchestrator struct {
	classifier Classifier
	generator  Generator
	sink       leads.Sink
	sender     Sender
	dedup      Deduper
	notifier   HotNotifier
	metrics    *metrics.PipelineMetrics
	logger     *logging.Logger
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		classifier: cfg.Classifier,
		generator:  cfg.Generator,
		sink:       cfg.Sink,
		sender:     cfg.Sender,
		dedup:      cfg.Dedup,
		notifier:   cfg.Notifier,
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

// Process runs the full pipeline for one event. Only the parse gate aborts;
// every later stage degrades to its fallback and the pipeline proceeds.
// Nothing here returns an error to the transport: the webhook has already
// been acked by the time this runs.
func (o *Orchestrator) Process(ctx context.Context, event InboundEvent) Outcome {
	start := time.Now()
	defer func() {
		o.metrics.ObserveDuration(time.Since(start).Seconds())
	}()

	text := strings.TrimSpace(event.RawText)
	if event.Type != "text" || text == "" {
		o.logger.Info("ignoring non-text or empty message",
			"sender", event.SenderAddress,
			"type", event.Type,
		)
		o.metrics.ObserveInbound(event.Type, "ignored")
		return Outcome{}
	}

	if o.dedup != nil && event.MessageID != "" {
		first, err := o.dedup.MarkProcessed(ctx, "whatsapp", event.MessageID)
		if err != nil {
			// Fail open: better a rare duplicate row than a dropped lead.
			o.logger.Warn("dedup check failed", "message_id", event.MessageID, "error", err)
			o.metrics.ObserveStageFailure("dedup")
		} else if !first {
			o.logger.Info("skipping redelivered message", "message_id", event.MessageID)
			o.metrics.ObserveInbound("text", "duplicate")
			return Outcome{Duplicate: true}
		}
	}

	o.logger.Info("incoming message", "sender", event.SenderAddress, "text", text)
	o.metrics.ObserveInbound("text", "processing")

	name, hasName := leads.ExtractName(text)

	in, err := o.classifier.Classify(ctx, text)
	if err != nil {
		o.logger.Warn("intent classification degraded to general", "error", err)
		o.metrics.ObserveStageFailure("classify")
	}

	score := leads.CalculateScore(in, text)
	o.logger.Info("message classified",
		"intent", in,
		"score", score,
		"name", name,
	)

	receivedAt := event.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	record := leads.Record{
		Name:    name,
		Phone:   event.SenderAddress,
		Intent:  in,
		Score:   score,
		Message: text,
		Time:    receivedAt,
	}
	if !hasName {
		record.Name = leads.UnknownName
	}

	outcome := Outcome{
		Processed: true,
		Name:      record.Name,
		Intent:    in,
		Score:     score,
	}

	// Persistence is attempted unconditionally, whatever happened above.
	if err := o.sink.Append(ctx, record); err != nil {
		o.logger.Error("failed to save lead",
			"error", err,
			"phone", record.Phone,
			"intent", record.Intent,
			"score", record.Score,
			"message", record.Message,
		)
		o.metrics.ObserveStageFailure("persist")
	} else {
		outcome.Persisted = true
		o.metrics.ObserveLeadPersisted(string(score))
	}

	replyText, err := o.generator.Generate(ctx, in, text, name)
	if err != nil {
		o.logger.Warn("reply generation degraded to fallback", "error", err)
		o.metrics.ObserveStageFailure("generate")
	}

	if score == leads.ScoreHot {
		replyText += EscalationSentence
		if o.notifier != nil {
			if err := o.notifier.NotifyHotLead(ctx, record); err != nil {
				o.logger.Warn("hot lead notification failed", "error", err)
				o.metrics.ObserveStageFailure("notify")
			}
		}
	}
	outcome.Reply = replyText

	if err := o.sender.SendText(ctx, event.SenderAddress, replyText); err != nil {
		o.logger.Error("failed to send reply", "sender", event.SenderAddress, "error", err)
		o.metrics.ObserveOutbound("failed")
	} else {
		outcome.Sent = true
		o.metrics.ObserveOutbound("sent")
	}

	return outcome
}
