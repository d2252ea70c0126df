// Package lifecycle exposes note mutations as lifecycle events and keeps an
// audit trail of them.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notehub/pkg/core"
)

// Event is a successful create or delete as seen by lifecycle consumers.
type Event struct {
	core.Event
}

// String implements lifecycle.Event.
func (e Event) String() string {
	switch e.Type {
	case core.EventCreate:
		return fmt.Sprintf("note %s created", e.ID)
	case core.EventDelete:
		return fmt.Sprintf("note %s deleted", e.ID)
	}
	return fmt.Sprintf("note %s: %s", e.ID, e.Type)
}

// Attrs returns the structured fields of the audit line.
func (e Event) Attrs() []any {
	attrs := []any{"action", strings.ToLower(string(e.Type)), "id", e.ID.String()}
	if e.Timestamp > 0 {
		attrs = append(attrs, "at", time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339))
	}
	return attrs
}

// Source turns the channel returned by core.Service.Watch into a
// lifecycle.Source.
type Source struct {
	in        <-chan core.Event
	out       chan lifecycle.Event
	forwarded atomic.Uint64
}

var _ lifecycle.Source = (*Source)(nil)

// NewSource wraps events. Nothing is read until Start.
func NewSource(events <-chan core.Event) *Source {
	return &Source{in: events, out: make(chan lifecycle.Event)}
}

// Events implements lifecycle.Source. The channel is closed when the source
// stops.
func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Forwarded returns how many events reached a consumer.
func (s *Source) Forwarded() uint64 {
	return s.forwarded.Load()
}

// Start forwards events until ctx is done or the watch channel closes.
func (s *Source) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			var ok bool
			select {
			case <-ctx.Done():
				return nil
			case e, ok = <-s.in:
			}
			if !ok {
				return nil
			}
			select {
			case s.out <- Event{e}:
				s.forwarded.Add(1)
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}

// Audit starts a Source over events and writes one Info line per mutation
// to logger until the source stops.
func Audit(ctx context.Context, events <-chan core.Event, logger *slog.Logger) (*Source, error) {
	src := NewSource(events)
	if err := src.Start(ctx); err != nil {
		return nil, err
	}
	lifecycle.Go(ctx, func(context.Context) error {
		for e := range src.Events() {
			if me, ok := e.(Event); ok {
				logger.Info(me.String(), me.Attrs()...)
				continue
			}
			logger.Info(e.String())
		}
		return nil
	})
	return src, nil
}
