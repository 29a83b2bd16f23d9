package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStats is a snapshot of connection pool counters.
type PoolStats struct {
	AcquireCount         int64
	AcquiredConns        int32
	IdleConns            int32
	TotalConns           int32
	MaxConns             int32
	CanceledAcquireCount int64
	EmptyAcquireCount    int64
	AcquireDuration      float64
}

// PoolCollector exports pool statistics in Prometheus format.
type PoolCollector struct {
	stats func() PoolStats

	acquireCount         *prometheus.Desc
	acquiredConns        *prometheus.Desc
	idleConns            *prometheus.Desc
	totalConns           *prometheus.Desc
	maxConns             *prometheus.Desc
	canceledAcquireCount *prometheus.Desc
	emptyAcquireCount    *prometheus.Desc
	acquireDuration      *prometheus.Desc
}

// NewPoolCollector reads statistics from a live pool on every scrape.
func NewPoolCollector(pool *pgxpool.Pool) *PoolCollector {
	return newPoolCollector(func() PoolStats {
		s := pool.Stat()
		return PoolStats{
			AcquireCount:         s.AcquireCount(),
			AcquiredConns:        s.AcquiredConns(),
			IdleConns:            s.IdleConns(),
			TotalConns:           s.TotalConns(),
			MaxConns:             s.MaxConns(),
			CanceledAcquireCount: s.CanceledAcquireCount(),
			EmptyAcquireCount:    s.EmptyAcquireCount(),
			AcquireDuration:      s.AcquireDuration().Seconds(),
		}
	})
}

func newPoolCollector(stats func() PoolStats) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("db", "pool", name), help, nil, nil)
	}

	return &PoolCollector{
		stats:                stats,
		acquireCount:         desc("acquire_total", "Cumulative count of successful connection acquires."),
		acquiredConns:        desc("acquired_connections", "Connections currently checked out."),
		idleConns:            desc("idle_connections", "Idle connections in the pool."),
		totalConns:           desc("total_connections", "Total connections in the pool."),
		maxConns:             desc("max_connections", "Maximum size of the pool."),
		canceledAcquireCount: desc("canceled_acquire_total", "Acquires canceled by their context."),
		emptyAcquireCount:    desc("empty_acquire_total", "Acquires that waited because the pool was empty."),
		acquireDuration:      desc("acquire_duration_seconds_total", "Total time spent acquiring connections."),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquireCount
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.canceledAcquireCount
	ch <- c.emptyAcquireCount
	ch <- c.acquireDuration
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(s.AcquireCount))
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(s.AcquiredConns))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(s.MaxConns))
	ch <- prometheus.MustNewConstMetric(c.canceledAcquireCount, prometheus.CounterValue, float64(s.CanceledAcquireCount))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquireCount, prometheus.CounterValue, float64(s.EmptyAcquireCount))
	ch <- prometheus.MustNewConstMetric(c.acquireDuration, prometheus.CounterValue, s.AcquireDuration)
}
