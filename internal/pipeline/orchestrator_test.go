package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/leadline/internal/intent"
	"github.com/wolfman30/leadline/internal/leads"
	"github.com/wolfman30/leadline/internal/reply"
)

type fakeClassifier struct {
	intent intent.Intent
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, message string) (intent.Intent, error) {
	f.calls++
	if f.err != nil {
		return intent.IntentGeneral, f.err
	}
	return f.intent, nil
}

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, in intent.Intent, message, name string) (string, error) {
	f.calls++
	if f.err != nil {
		return reply.Fallback, f.err
	}
	return f.text, nil
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	to   string
	text string
}

func (f *fakeSender) SendText(ctx context.Context, to, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{to: to, text: text})
	return nil
}

type fakeDeduper struct {
	seen map[string]bool
	err  error
}

func (f *fakeDeduper) MarkProcessed(ctx context.Context, provider, messageID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[messageID] {
		return false, nil
	}
	f.seen[messageID] = true
	return true, nil
}

type fakeNotifier struct {
	notified []leads.Record
	err      error
}

func (f *fakeNotifier) NotifyHotLead(ctx context.Context, record leads.Record) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, record)
	return nil
}

type failingSink struct{ err error }

func (f *failingSink) Append(ctx context.Context, record leads.Record) error { return f.err }

func textEvent(text string) InboundEvent {
	return InboundEvent{
		SenderAddress: "15550001111",
		RawText:       text,
		Type:          "text",
		MessageID:     "wamid.test.001",
		ReceivedAt:    time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
	}
}

func TestProcessHotLeadEndToEnd(t *testing.T) {
	sink := leads.NewMemorySink()
	sender := &fakeSender{}
	notifier := &fakeNotifier{}
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{intent: intent.IntentPricing},
		Generator:  &fakeGenerator{text: "Hi John! Our pricing starts at $99."},
		Sink:       sink,
		Sender:     sender,
		Notifier:   notifier,
	})

	outcome := o.Process(context.Background(), textEvent("Hi, I'm John, what's your pricing?"))

	require.True(t, outcome.Processed)
	assert.Equal(t, "John", outcome.Name)
	assert.Equal(t, intent.IntentPricing, outcome.Intent)
	assert.Equal(t, leads.ScoreHot, outcome.Score)
	assert.True(t, outcome.Persisted)
	assert.True(t, outcome.Sent)

	records := sink.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "John", records[0].Name)
	assert.Equal(t, "15550001111", records[0].Phone)
	assert.Equal(t, intent.IntentPricing, records[0].Intent)
	assert.Equal(t, leads.ScoreHot, records[0].Score)
	assert.Equal(t, "Hi, I'm John, what's your pricing?", records[0].Message)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "15550001111", sender.sent[0].to)
	assert.Equal(t, "Hi John! Our pricing starts at $99."+EscalationSentence, sender.sent[0].text)

	require.Len(t, notifier.notified, 1)
	assert.Equal(t, leads.ScoreHot, notifier.notified[0].Score)
}

func TestProcessColdLeadNoEscalation(t *testing.T) {
	sink := leads.NewMemorySink()
	sender := &fakeSender{}
	notifier := &fakeNotifier{}
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{intent: intent.IntentGreeting},
		Generator:  &fakeGenerator{text: "Hello! How can we help today?"},
		Sink:       sink,
		Sender:     sender,
		Notifier:   notifier,
	})

	outcome := o.Process(context.Background(), textEvent("hello"))

	assert.Equal(t, leads.ScoreCold, outcome.Score)
	assert.Equal(t, leads.UnknownName, outcome.Name)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Hello! How can we help today?", sender.sent[0].text)
	assert.Empty(t, notifier.notified)
}

func TestProcessIgnoresNonTextAndEmpty(t *testing.T) {
	tests := []struct {
		name  string
		event InboundEvent
	}{
		{"image message", InboundEvent{SenderAddress: "1555", Type: "image", MessageID: "wamid.img"}},
		{"empty body", InboundEvent{SenderAddress: "1555", Type: "text", RawText: "   "}},
		{"missing type", InboundEvent{SenderAddress: "1555", RawText: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := leads.NewMemorySink()
			sender := &fakeSender{}
			classifier := &fakeClassifier{intent: intent.IntentGeneral}
			o := NewOrchestrator(Config{
				Classifier: classifier,
				Generator:  &fakeGenerator{text: "x"},
				Sink:       sink,
				Sender:     sender,
			})

			outcome := o.Process(context.Background(), tt.event)

			assert.False(t, outcome.Processed)
			assert.Empty(t, sink.Records(), "no lead may be persisted")
			assert.Empty(t, sender.sent, "no reply may be sent")
			assert.Zero(t, classifier.calls, "classifier must not run")
		})
	}
}

func TestProcessClassifierFailureFallsBackToGeneral(t *testing.T) {
	sink := leads.NewMemorySink()
	sender := &fakeSender{}
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{err: errors.New("gemini unreachable")},
		Generator:  &fakeGenerator{text: "Thanks for your message!"},
		Sink:       sink,
		Sender:     sender,
	})

	outcome := o.Process(context.Background(), textEvent("what services do you offer"))

	assert.True(t, outcome.Processed)
	assert.Equal(t, intent.IntentGeneral, outcome.Intent)
	require.Len(t, sink.Records(), 1)
	assert.Equal(t, intent.IntentGeneral, sink.Records()[0].Intent)
	assert.Len(t, sender.sent, 1, "pipeline proceeds past a failed classification")
}

func TestProcessGeneratorFailureSendsFallback(t *testing.T) {
	sender := &fakeSender{}
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{intent: intent.IntentGreeting},
		Generator:  &fakeGenerator{err: errors.New("gemini unreachable")},
		Sink:       leads.NewMemorySink(),
		Sender:     sender,
	})

	outcome := o.Process(context.Background(), textEvent("hello there"))

	assert.True(t, outcome.Processed)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, reply.Fallback, sender.sent[0].text)
	assert.True(t, outcome.Sent)
}

func TestProcessPersistFailureDoesNotAbort(t *testing.T) {
	sender := &fakeSender{}
	generator := &fakeGenerator{text: "Sure thing!"}
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{intent: intent.IntentBooking},
		Generator:  generator,
		Sink:       &failingSink{err: errors.New("sheet unavailable")},
		Sender:     sender,
	})

	outcome := o.Process(context.Background(), textEvent("can I book a slot"))

	assert.True(t, outcome.Processed)
	assert.False(t, outcome.Persisted)
	assert.Equal(t, 1, generator.calls, "generation still runs after a failed persist")
	assert.Len(t, sender.sent, 1, "reply still goes out after a failed persist")
}

func TestProcessSendFailureIsNotFatal(t *testing.T) {
	sink := leads.NewMemorySink()
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{intent: intent.IntentGeneral},
		Generator:  &fakeGenerator{text: "Got it."},
		Sink:       sink,
		Sender:     &fakeSender{err: errors.New("graph api 500")},
	})

	outcome := o.Process(context.Background(), textEvent("just checking in"))

	assert.True(t, outcome.Processed)
	assert.True(t, outcome.Persisted, "lead is persisted even when the send fails")
	assert.False(t, outcome.Sent)
}

func TestProcessSinkInvokedOncePerEventDespiteOtherFailures(t *testing.T) {
	sink := leads.NewMemorySink()
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{err: errors.New("down")},
		Generator:  &fakeGenerator{err: errors.New("down")},
		Sink:       sink,
		Sender:     &fakeSender{err: errors.New("down")},
	})

	o.Process(context.Background(), textEvent("everything is broken"))

	records := sink.Records()
	require.Len(t, records, 1)
	assert.Equal(t, leads.UnknownName, records[0].Name)
}

func TestProcessDedupSkipsRedelivery(t *testing.T) {
	sink := leads.NewMemorySink()
	sender := &fakeSender{}
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{intent: intent.IntentGeneral},
		Generator:  &fakeGenerator{text: "Hi!"},
		Sink:       sink,
		Sender:     sender,
		Dedup:      &fakeDeduper{},
	})

	event := textEvent("hello")
	first := o.Process(context.Background(), event)
	second := o.Process(context.Background(), event)

	assert.True(t, first.Processed)
	assert.True(t, second.Duplicate)
	assert.False(t, second.Processed)
	assert.Len(t, sink.Records(), 1)
	assert.Len(t, sender.sent, 1)
}

func TestProcessDedupFailureIsFailOpen(t *testing.T) {
	sink := leads.NewMemorySink()
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{intent: intent.IntentGeneral},
		Generator:  &fakeGenerator{text: "Hi!"},
		Sink:       sink,
		Sender:     &fakeSender{},
		Dedup:      &fakeDeduper{err: errors.New("redis down")},
	})

	outcome := o.Process(context.Background(), textEvent("hello"))

	assert.True(t, outcome.Processed, "dedup outage must not drop messages")
	assert.Len(t, sink.Records(), 1)
}

func TestProcessNotifierFailureDoesNotBlockSend(t *testing.T) {
	sender := &fakeSender{}
	o := NewOrchestrator(Config{
		Classifier: &fakeClassifier{intent: intent.IntentPricing},
		Generator:  &fakeGenerator{text: "Our pricing starts at $99."},
		Sink:       leads.NewMemorySink(),
		Sender:     sender,
		Notifier:   &fakeNotifier{err: errors.New("sendgrid 500")},
	})

	outcome := o.Process(context.Background(), textEvent("what's the cost?"))

	assert.Equal(t, leads.ScoreHot, outcome.Score)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, EscalationSentence)
	assert.True(t, outcome.Sent)
}
