package leads

import (
	"context"
	"errors"
	"sync"
)

// Sink appends lead records to durable storage. The store is append-only and
// owned externally; records are never read back, mutated or deleted here.
type Sink interface {
	Append(ctx context.Context, record Record) error
}

// MemorySink keeps appended records in memory. Used in tests and as the
// default when no sheet is configured.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append stores the record in memory.
func (s *MemorySink) Append(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()
	return nil
}

// Records returns a copy of everything appended so far.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// FanoutSink appends to every sink, collecting errors so a failing mirror
// never blocks the primary append.
type FanoutSink struct {
	sinks []Sink
}

// NewFanoutSink combines sinks; nil entries are skipped.
func NewFanoutSink(sinks ...Sink) *FanoutSink {
	f := &FanoutSink{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Append writes to all sinks and joins any errors.
func (f *FanoutSink) Append(ctx context.Context, record Record) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Append(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
