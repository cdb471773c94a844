package progress

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const channelName = "cvrp:progress"

// RedisBroker publishes Events over Redis Pub/Sub so a long-running
// solve can be watched from another process or machine. Subscribe
// fans the Redis channel out to local Go channels the same way
// MemoryBroker does.
type RedisBroker struct {
	rdb     *redis.Client
	limiter *MemoryBroker // reused purely for its rate limiter

	mu   sync.Mutex
	subs map[chan Event]chan struct{}
}

// NewRedisBroker connects to the Redis instance at addr (as accepted
// by redis.ParseURL).
func NewRedisBroker(addr string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, err
	}
	return &RedisBroker{
		rdb:     redis.NewClient(opt),
		limiter: NewMemoryBroker(),
		subs:    map[chan Event]chan struct{}{},
	}, nil
}

// Subscribe starts a forwarding goroutine that is the sole owner of ch:
// only it ever closes ch, on its own exit, so a concurrent Unsubscribe
// can never race a send against a close. Unsubscribe instead closes a
// private quit channel that tells the goroutine to stop.
func (b *RedisBroker) Subscribe() chan Event {
	ch := make(chan Event, 16)
	quit := make(chan struct{})

	b.mu.Lock()
	b.subs[ch] = quit
	b.mu.Unlock()

	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, channelName)
	_, _ = ps.Receive(ctx)
	go func() {
		defer close(ch)
		defer ps.Close()
		for {
			select {
			case <-quit:
				return
			case msg, ok := <-ps.Channel():
				if !ok {
					return
				}
				var evt Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
					select {
					case ch <- evt:
					case <-quit:
						return
					default:
					}
				}
			}
		}
	}()
	return ch
}

func (b *RedisBroker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	quit, ok := b.subs[ch]
	if ok {
		delete(b.subs, ch)
	}
	b.mu.Unlock()
	if ok {
		close(quit)
	}
}

func (b *RedisBroker) Publish(evt Event) {
	if !b.limiter.limiter.AllowN(time.Now(), 1) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	_ = b.rdb.Publish(ctx, channelName, data).Err()
}

func (b *RedisBroker) Close() {
	_ = b.rdb.Close()
}
