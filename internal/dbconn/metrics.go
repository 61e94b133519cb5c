package dbconn

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	poolAcquires = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentdb_pool_acquires_total",
		Help: "Number of connection leases handed out by the pool",
	})
	poolReleases = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentdb_pool_releases_total",
		Help: "Number of connection leases returned to the pool",
	})
	poolOpenFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentdb_pool_open_failures_total",
		Help: "Number of failed attempts to open the shared database resource",
	})
	poolState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agentdb_pool_state",
		Help: "Pool lifecycle state, 1 for the current state and 0 otherwise",
	}, []string{"state"})
	poolActiveLeases = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agentdb_pool_active_leases",
		Help: "Number of leases currently held on the pool",
	})
)

// PoolMetricsCollector publishes pool state snapshots as Prometheus gauges.
type PoolMetricsCollector struct {
	pool   *Pool
	logger *slog.Logger
	queue  chan struct{}
}

func NewPoolMetricsCollector(pool *Pool, logger *slog.Logger) *PoolMetricsCollector {
	return &PoolMetricsCollector{
		pool:   pool,
		logger: logger,
		queue:  make(chan struct{}, 1),
	}
}

func (c *PoolMetricsCollector) GatherMetrics() {
	c.logger.Debug("gathering pool metrics")

	stats := c.pool.Stats()
	for _, s := range []PoolState{StateUninitialized, StateAcquiring, StateReady, StateClosed} {
		v := 0.0
		if s == stats.State {
			v = 1.0
		}
		poolState.WithLabelValues(s.String()).Set(v)
	}
	poolActiveLeases.Set(float64(stats.ActiveLeases))
}

func (c *PoolMetricsCollector) EnqueueGatherMetrics() {
	select {
	case c.queue <- struct{}{}:
		c.logger.Debug("enqueued pool metrics job")
	default:
		c.logger.Debug("pool metrics job already pending")
	}
}

func (c *PoolMetricsCollector) StartMetricsCollection(ctx context.Context, interval time.Duration) {
	if c.pool == nil {
		c.logger.Debug("pool is nil, not starting metrics collection")
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Debug("stopped pool metrics collector")
				return
			case <-c.queue:
				c.GatherMetrics()
			}
		}
	}()

	// interval is optional
	if interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			c.logger.Debug("starting periodic pool metrics collector", "interval", interval)

			for {
				select {
				case <-ctx.Done():
					c.logger.Debug("stopped periodic pool metrics collector")
					return
				case <-ticker.C:
					c.EnqueueGatherMetrics()
				}
			}
		}()
	}

	c.EnqueueGatherMetrics()
}
