package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"agentdb/internal/api"
	"agentdb/internal/dbconn"
	"agentdb/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, driver *testutil.FakeDriver) (*api.Handler, *dbconn.Pool) {
	t.Helper()

	pool, err := dbconn.NewPool(dbconn.DefaultConfig(), driver)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewHandler(pool, logger), pool
}

func TestHealthz(t *testing.T) {
	driver := &testutil.FakeDriver{}
	handler, _ := newTestHandler(t, driver)

	server := httptest.NewServer(http.HandlerFunc(handler.Healthz))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Status string `json:"status"`
	}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)

	// Liveness must not touch the database
	assert.Equal(t, 0, driver.Opens())
}

func TestReadyz(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		driver := &testutil.FakeDriver{}
		handler, pool := newTestHandler(t, driver)

		server := httptest.NewServer(http.HandlerFunc(handler.Readyz))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Status string `json:"status"`
		}
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, "ready", result.Status)

		// The probe opened the shared resource and released its lease
		assert.Equal(t, 1, driver.Opens())
		assert.Equal(t, 1, driver.Pings())
		assert.Equal(t, 0, pool.Stats().ActiveLeases)
	})

	t.Run("Unavailable", func(t *testing.T) {
		driver := &testutil.FakeDriver{OpenErr: errors.New("connection refused")}
		handler, _ := newTestHandler(t, driver)

		server := httptest.NewServer(http.HandlerFunc(handler.Readyz))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var result struct {
			Status string `json:"status"`
		}
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, "unavailable", result.Status)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		driver := &testutil.FakeDriver{}
		handler, _ := newTestHandler(t, driver)

		server := httptest.NewServer(http.HandlerFunc(handler.Readyz))
		defer server.Close()

		resp, err := http.Post(server.URL, "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, 0, driver.Opens())
	})
}

func TestStatus(t *testing.T) {
	driver := &testutil.FakeDriver{}
	handler, pool := newTestHandler(t, driver)

	// Exercise the pool so the counters have something to report
	conn, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	conn.Release()

	server := httptest.NewServer(http.HandlerFunc(handler.Status))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Endpoint     string `json:"endpoint"`
		State        string `json:"state"`
		Uptime       string `json:"uptime"`
		Acquires     uint64 `json:"acquires"`
		Releases     uint64 `json:"releases"`
		OpenFailures uint64 `json:"open_failures"`
		ActiveLeases int    `json:"active_leases"`
	}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)

	assert.Equal(t, "ready", result.State)
	assert.Equal(t, uint64(1), result.Acquires)
	assert.Equal(t, uint64(1), result.Releases)
	assert.Equal(t, uint64(0), result.OpenFailures)
	assert.Equal(t, 0, result.ActiveLeases)
	assert.NotEmpty(t, result.Uptime)

	// The reported endpoint must never leak credentials
	assert.Equal(t, pool.Config().String(), result.Endpoint)
	assert.Contains(t, result.Endpoint, ":***@")
	assert.NotContains(t, result.Endpoint, "agent:agent@")
}
