package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel returns the Redis channel carrying userID's events.
func Channel(userID uuid.UUID) string {
	return "auth_events:" + userID.String()
}

// RedisBroker shares events between API instances over Redis pub/sub. Each user with at
// least one local subscriber holds one Redis subscription, closed with the last
// unsubscribe.
type RedisBroker struct {
	client *redis.Client
	logger *slog.Logger
	reg    *registry

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc

	// listen is replaced in tests.
	listen func(ctx context.Context, userID uuid.UUID)
}

// NewRedisBroker returns a broker publishing through client.
func NewRedisBroker(client *redis.Client, logger *slog.Logger) *RedisBroker {
	if logger == nil {
		logger = slog.Default()
	}
	b := &RedisBroker{
		client:  client,
		logger:  logger,
		reg:     newRegistry(),
		cancels: make(map[uuid.UUID]context.CancelFunc),
	}
	b.listen = b.subscribeToPubSub
	return b
}

// Publish sends event to every instance subscribed to its user.
func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}
	if err := b.client.Publish(ctx, Channel(event.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}
	return nil
}

// Subscribe implements Broker.
func (b *RedisBroker) Subscribe(userID uuid.UUID, fn func(Event)) func() {
	b.mu.Lock()
	id, first := b.reg.add(userID, fn)
	if first {
		ctx, cancel := context.WithCancel(context.Background())
		b.cancels[userID] = cancel
		go b.listen(ctx, userID)
	}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.reg.remove(userID, id) {
				if cancel, ok := b.cancels[userID]; ok {
					cancel()
					delete(b.cancels, userID)
				}
			}
		})
	}
}

// Close cancels every Redis subscription.
func (b *RedisBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for userID, cancel := range b.cancels {
		cancel()
		delete(b.cancels, userID)
	}
}

func (b *RedisBroker) subscribeToPubSub(ctx context.Context, userID uuid.UUID) {
	pubsub := b.client.Subscribe(ctx, Channel(userID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("discarding malformed session event", slog.String("channel", msg.Channel), slog.Any("error", err))
				continue
			}
			b.reg.deliver(event)
		}
	}
}
