// Package lifecycle exposes note change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/quire/pkg/core"
)

type noteSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	filter func(core.Event) bool
}

// SourceOption configures a note source.
type SourceOption func(*noteSource)

// WithTypes forwards only events of the given types.
func WithTypes(types ...core.EventType) SourceOption {
	return func(s *noteSource) {
		allowed := make(map[core.EventType]bool, len(types))
		for _, t := range types {
			allowed[t] = true
		}
		s.filter = func(e core.Event) bool { return allowed[e.Type] }
	}
}

// NewSource wraps a note event channel. Events() is closed once the input closes or
// the context given to Start is cancelled.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &noteSource{
		events: events,
		out:    make(chan lifecycle.Event),
		filter: func(core.Event) bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.filter(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
