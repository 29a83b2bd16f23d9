package database

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPoolCollector(t *testing.T) {
	t.Run("exports pool statistics", func(t *testing.T) {
		collector := newPoolCollector(func() PoolStats {
			return PoolStats{
				AcquireCount:  42,
				AcquiredConns: 3,
				IdleConns:     2,
				TotalConns:    5,
				MaxConns:      25,
			}
		})

		registry := prometheus.NewRegistry()
		if err := registry.Register(collector); err != nil {
			t.Fatalf("Register() failed: %v", err)
		}

		if n := testutil.CollectAndCount(collector); n != 8 {
			t.Errorf("expected 8 metrics, got %d", n)
		}

		expected := `
# HELP db_pool_total_connections Total connections in the pool.
# TYPE db_pool_total_connections gauge
db_pool_total_connections 5
# HELP db_pool_acquire_total Cumulative count of successful connection acquires.
# TYPE db_pool_acquire_total counter
db_pool_acquire_total 42
`
		if err := testutil.GatherAndCompare(registry, strings.NewReader(expected),
			"db_pool_total_connections", "db_pool_acquire_total"); err != nil {
			t.Errorf("unexpected metrics: %v", err)
		}
	})
}
