package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Error codes reported by the bus.
const (
	ErrCodeBusClosed    types.ErrorCode = "EVENTS_BUS_CLOSED"
	ErrCodeEventDropped types.ErrorCode = "EVENTS_EVENT_DROPPED"
)

// EventBus fans run events out to filtered subscribers. Implementations
// are safe for concurrent use, and a full subscriber buffer never stalls
// Publish.
type EventBus interface {
	// Publish fails only once the bus is closed or ctx is done.
	Publish(ctx context.Context, event Event) error

	// Subscribe returns the event channel and the func that releases it.
	// A bufferSize of 0 picks the bus default.
	Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func())

	Close() error
}

// DefaultEventBus is the in-process EventBus.
type DefaultEventBus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	lastID uint64
	closed bool

	bufferSize int
	onDrop     ErrorHandler
}

type subscriber struct {
	id     uint64
	ch     chan Event
	filter Filter
	done   <-chan struct{}
	cancel context.CancelFunc
}

// ErrorHandler hears about events a subscriber missed. fields carries the
// subscriber id and the event's type, run and agent.
type ErrorHandler func(err error, fields map[string]any)

// Option configures NewEventBus.
type Option func(*DefaultEventBus)

// WithDefaultBufferSize replaces the 100-event default buffer.
// Non-positive sizes are ignored.
func WithDefaultBufferSize(size int) Option {
	return func(b *DefaultEventBus) {
		if size > 0 {
			b.bufferSize = size
		}
	}
}

// WithErrorHandler reports dropped events to handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(b *DefaultEventBus) {
		if handler != nil {
			b.onDrop = handler
		}
	}
}

func NewEventBus(opts ...Option) *DefaultEventBus {
	b := &DefaultEventBus{
		subs:       make(map[uint64]*subscriber),
		bufferSize: 100,
		onDrop:     func(error, map[string]any) {},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *DefaultEventBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return types.NewError(ErrCodeBusClosed, "event bus is closed")
	}

	for _, s := range b.subs {
		if err := b.deliver(ctx, s, event); err != nil {
			return err
		}
	}
	return nil
}

// deliver offers event to s without waiting. Cancelled subscribers and
// non-matching events are skipped.
func (b *DefaultEventBus) deliver(ctx context.Context, s *subscriber, event Event) error {
	select {
	case <-s.done:
		return nil
	default:
	}
	if !s.filter.Matches(event) {
		return nil
	}

	select {
	case s.ch <- event:
	case <-ctx.Done():
		return ctx.Err()
	default:
		b.onDrop(types.NewError(ErrCodeEventDropped, "subscriber buffer full"), map[string]any{
			"subscriber_id": fmt.Sprintf("sub-%d", s.id),
			"event_type":    event.Type,
			"run_id":        event.RunID,
			"agent":         event.Agent,
		})
	}
	return nil
}

// Subscribe registers a subscriber. On a closed bus the returned channel
// is already closed.
func (b *DefaultEventBus) Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if bufferSize <= 0 {
		bufferSize = b.bufferSize
	}
	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	subCtx, cancel := context.WithCancel(ctx)
	b.lastID++
	s := &subscriber{id: b.lastID, ch: ch, filter: filter, done: subCtx.Done(), cancel: cancel}
	b.subs[s.id] = s
	return ch, func() { b.remove(s.id) }
}

func (b *DefaultEventBus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.subs[id]; ok {
		s.stop()
		delete(b.subs, id)
	}
}

func (s *subscriber) stop() {
	s.cancel()
	close(s.ch)
}

// Close stops every subscriber. Calling it again is a no-op.
func (b *DefaultEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, s := range b.subs {
		s.stop()
		delete(b.subs, id)
	}
	return nil
}

// SubscriberCount is the number of live subscriptions.
func (b *DefaultEventBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

var _ EventBus = (*DefaultEventBus)(nil)
