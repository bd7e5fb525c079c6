package eventbus

import (
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

// Event types fanned out to live clients.
const (
	TypeMatchConfirmed      = "match_confirmed"
	TypeStandingsUpdated    = "standings_updated"
	TypeBracketUpdated      = "bracket_updated"
	TypeCompetitionComplete = "competition_complete"
)

// DefaultBufferSize is the per-subscriber queue depth. A subscriber that
// falls this far behind is dropped and expected to reconnect fresh.
const DefaultBufferSize = 50

type envelope struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Subscriber receives serialized event frames on C. The channel is closed
// when the subscriber is dropped or unsubscribed; the SSE gateway treats a
// closed channel as "reconnect".
type Subscriber struct {
	C  <-chan []byte
	ch chan []byte
}

// Bus is the in-process fan-out for progression events. Publish never
// blocks: subscribers whose buffers are full are removed wholesale rather
// than stalling the confirming request.
type Bus struct {
	mu      sync.Mutex
	subs    map[*Subscriber]struct{}
	size    int
	logger  *logging.Logger
	nowFunc func() time.Time
}

func New(bufferSize int, logger *logging.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Bus{
		subs:    make(map[*Subscriber]struct{}),
		size:    bufferSize,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (b *Bus) Subscribe() *Subscriber {
	ch := make(chan []byte, b.size)
	sub := &Subscriber{C: ch, ch: ch}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

func (b *Bus) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.remove(sub)
}

// Publish serializes {type, data, timestamp} once and enqueues the frame to
// every subscriber. Serialization failures are logged and swallowed; the
// bus must never fail a confirmation that already committed.
func (b *Bus) Publish(eventType string, data any) {
	frame, err := sonic.Marshal(envelope{
		Type:      eventType,
		Data:      data,
		Timestamp: b.nowFunc().UTC(),
	})
	if err != nil {
		b.logger.Error("event serialization failed", "event_type", eventType, "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var dropped []*Subscriber
	for sub := range b.subs {
		select {
		case sub.ch <- frame:
		default:
			dropped = append(dropped, sub)
		}
	}
	for _, sub := range dropped {
		b.remove(sub)
		b.logger.Warn("dropped slow event subscriber", "event_type", eventType, "buffer", b.size)
	}
}

func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Clear drops every subscriber. Used by tests and on shutdown.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		b.remove(sub)
	}
}

// remove must be called with b.mu held.
func (b *Bus) remove(sub *Subscriber) {
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
}
