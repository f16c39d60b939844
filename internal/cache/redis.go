// internal/cache/redis.go

// Package cache feeds resolved turns to an out-of-process historian
// over a Redis list. The feed is write-only and best-effort: game state
// itself never leaves process memory.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redorblack/server/internal/deck"
	"github.com/redorblack/server/internal/game"
)

// DefaultQueueName is the Redis list the historian consumes from.
var DefaultQueueName = "redorblack_turns"

// TurnRecord holds the minimal info the historian needs about one
// resolved turn.
type TurnRecord struct {
	Username   string          `json:"username"`
	Guess      game.CardColour `json:"guess"`
	Correct    bool            `json:"correct"`
	Card       deck.Card       `json:"card"`
	Penalty    uint16          `json:"penalty"`
	TurnNumber int             `json:"turn_number"`
	Timestamp  int64           `json:"timestamp"`
}

// Publisher pushes turn records onto the historian queue.
type Publisher struct {
	rdb   *redis.Client
	queue string
}

// NewPublisher connects to Redis at addr and verifies the connection.
// An empty queue name selects DefaultQueueName.
func NewPublisher(addr, queue string) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	if queue == "" {
		queue = DefaultQueueName
	}
	return &Publisher{rdb: rdb, queue: queue}, nil
}

// PublishTurn serialises the record and RPUSHes it onto the queue.
func (p *Publisher) PublishTurn(ctx context.Context, record TurnRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal TurnRecord: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", p.queue, err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
