package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dejobratic/ordenes/internal/orders/ports"
)

const keyPrefix = "idempotency:"

// Store keeps idempotency responses in Redis with a TTL.
type Store struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewStore(client goredis.UniversalClient, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

type storedResponse struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
	OrderID    int64  `json:"order_id"`
}

func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}

	var stored storedResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode idempotency key: %w", err)
	}

	return &ports.StoredResponse{
		StatusCode: stored.StatusCode,
		Body:       stored.Body,
		OrderID:    stored.OrderID,
	}, nil
}

// Save writes the response only if the key is not already present.
func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	raw, err := json.Marshal(storedResponse{
		StatusCode: response.StatusCode,
		Body:       response.Body,
		OrderID:    response.OrderID,
	})
	if err != nil {
		return fmt.Errorf("encode idempotency key: %w", err)
	}

	if err := s.client.SetNX(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set idempotency key: %w", err)
	}

	return nil
}
