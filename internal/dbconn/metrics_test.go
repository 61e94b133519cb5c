package dbconn

import (
	"context"
	"log/slog"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDriver struct{}

func (stubDriver) Open(context.Context, Config) (DB, error) { return stubDB{}, nil }

type stubDB struct{}

func (stubDB) Ping(context.Context) error { return nil }
func (stubDB) Close() error               { return nil }

func TestPoolMetricsCollectorGather(t *testing.T) {
	pool, err := NewPool(DefaultConfig(), stubDriver{})
	require.NoError(t, err)
	defer pool.Close()

	collector := NewPoolMetricsCollector(pool, slog.Default())

	collector.GatherMetrics()
	assert.Equal(t, 1.0, promtestutil.ToFloat64(poolState.WithLabelValues("uninitialized")))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(poolState.WithLabelValues("ready")))

	conn, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	collector.GatherMetrics()
	assert.Equal(t, 1.0, promtestutil.ToFloat64(poolState.WithLabelValues("ready")))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(poolState.WithLabelValues("uninitialized")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(poolActiveLeases))

	conn.Release()
	collector.GatherMetrics()
	assert.Equal(t, 0.0, promtestutil.ToFloat64(poolActiveLeases))
}

func TestPoolMetricsCollectorEnqueueCoalesces(t *testing.T) {
	pool, err := NewPool(DefaultConfig(), stubDriver{})
	require.NoError(t, err)
	defer pool.Close()

	collector := NewPoolMetricsCollector(pool, slog.Default())

	// Without a running collector the queue holds at most one pending job
	collector.EnqueueGatherMetrics()
	collector.EnqueueGatherMetrics()
	assert.Len(t, collector.queue, 1)
}
