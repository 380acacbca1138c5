// Package watch implements the bounded change-notification channel the
// single-node key-value store publishes Put/Delete events on.
package watch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cuemby/raftkv/internal/log"
	"github.com/cuemby/raftkv/internal/metrics"
)

// EventType is the closed set of mutations a Watch subscriber can observe.
type EventType string

const (
	EventPut    EventType = "put"
	EventDelete EventType = "delete"

	// EventDeleteAll is a single coalesced notification for a bulk clear,
	// rather than one EventDelete per key (spec.md §9 Open Question: a
	// range delete is preferable in the replicated variant, and a
	// thousand individual delete events would just collide with the
	// bounded channel's drop policy).
	EventDeleteAll EventType = "delete_all"
)

// Event is one change notification. Value is empty for EventDelete.
type Event struct {
	Key   string
	Type  EventType
	Value string
}

// defaultBufferSize sizes the per-subscriber buffer. The backpressure policy spec.md §5
// requires: bounded, and when full the OLDEST undelivered event is
// dropped rather than the newest. This is the one deliberate deviation
// from the teacher's own pkg/events.Broker, which drops the newest event
// (a non-blocking send with a default case); here the buffered channel's
// head is drained to make room before sending, so a slow subscriber loses
// history rather than losing today's write.
const defaultBufferSize = 64

// Broker fans Events out to any number of subscribers, each with its own
// bounded buffer. Subscribers are keyed by channel but tagged with a uuid
// so a dropped-event warning can name which subscription is lagging.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan Event]string
	bufferSize  int
}

// NewBroker constructs a Broker whose subscriber channels hold at most
// bufferSize pending events (defaultBufferSize when bufferSize <= 0).
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Broker{
		subscribers: make(map[chan Event]string),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new listener and returns its event channel plus
// an unsubscribe function. Callers must drain the channel (or call
// unsubscribe) to avoid leaking it.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.bufferSize)
	id := uuid.New().String()

	b.mu.Lock()
	b.subscribers[ch] = id
	metrics.WatchSubscribersTotal.Set(float64(len(b.subscribers)))
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		metrics.WatchSubscribersTotal.Set(float64(len(b.subscribers)))
		b.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish delivers event to every current subscriber, dropping the oldest
// buffered event for any subscriber whose channel is full.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch, id := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Buffer full: drop the oldest pending event to make room,
			// then retry once. If a concurrent receive already drained a
			// slot, the retry still succeeds; if the channel filled again
			// in that instant, we drop this event rather than block.
			select {
			case <-ch:
				metrics.WatchEventsDroppedTotal.Inc()
			default:
			}
			select {
			case ch <- event:
			default:
				metrics.WatchEventsDroppedTotal.Inc()
				log.WithComponent("watch").Warn().Str("subscriber", id).Str("key", event.Key).Msg("dropped watch event: subscriber buffer still full")
			}
		}
	}
}

// SubscriberCount returns the current number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
