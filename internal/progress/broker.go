// Package progress publishes LNS search events (global-best
// improvements, restarts) to interested observers without the solver
// ever blocking on a slow or absent subscriber. It generalizes the
// in-memory/Redis broker pair the teacher uses for route event
// streaming to this domain's search events.
package progress

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// EventKind distinguishes the two events the engine reports.
type EventKind string

const (
	EventImproved EventKind = "global_best_improved"
	EventRestart  EventKind = "restart"
)

// Event describes one search milestone from one worker.
type Event struct {
	Kind      EventKind `json:"kind"`
	Iteration int       `json:"iteration"`
	Worker    string    `json:"worker"`
	Cost      float64   `json:"cost"`
}

// Broker fans Events out to subscribers. Publish never blocks the
// caller: a full or absent subscriber only drops frames.
type Broker interface {
	Subscribe() chan Event
	Unsubscribe(ch chan Event)
	Publish(evt Event)
	Close()
}

// MemoryBroker is an in-process, non-blocking pub/sub fan-out, rate
// limited so a tight LNS loop publishing every accepted improvement
// never floods a slow subscriber (e.g. a WebSocket client on a busy
// connection).
type MemoryBroker struct {
	mu      sync.Mutex
	subs    map[chan Event]struct{}
	limiter *rate.Limiter
}

// NewMemoryBroker returns a broker that forwards at most ~5
// events/second to each subscriber, bursting up to 5.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs:    map[chan Event]struct{}{},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

func (b *MemoryBroker) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *MemoryBroker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *MemoryBroker) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.subs) == 0 {
		return
	}
	if !b.limiter.AllowN(time.Now(), 1) {
		return
	}
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (b *MemoryBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
