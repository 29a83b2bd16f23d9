package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dejobratic/ordenes/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewStore keeps responses in idempotency_keys. Rows older than ttl are ignored;
// a zero ttl keeps them forever.
func NewStore(pool *pgxpool.Pool, ttl time.Duration) *Store {
	return &Store{pool: pool, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	query := `
		SELECT status_code, body, order_id
		FROM idempotency_keys
		WHERE key = $1
		  AND ($2::double precision = 0 OR created_at > NOW() - make_interval(secs => $2::double precision))
	`

	var resp ports.StoredResponse
	err := s.pool.QueryRow(ctx, query, key, s.ttl.Seconds()).Scan(
		&resp.StatusCode,
		&resp.Body,
		&resp.OrderID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select idempotency key: %w", err)
	}

	return &resp, nil
}

func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	query := `
		INSERT INTO idempotency_keys (key, status_code, body, order_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET status_code = EXCLUDED.status_code,
		    body        = EXCLUDED.body,
		    order_id    = EXCLUDED.order_id,
		    created_at  = NOW()
		WHERE $5::double precision > 0
		  AND idempotency_keys.created_at <= NOW() - make_interval(secs => $5::double precision)
	`

	_, err := s.pool.Exec(ctx, query, key, response.StatusCode, response.Body, response.OrderID, s.ttl.Seconds())
	if err != nil {
		return fmt.Errorf("insert idempotency key: %w", err)
	}

	return nil
}
