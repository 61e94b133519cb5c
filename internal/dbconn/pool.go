package dbconn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// PoolState identifies the lifecycle state of the shared connection resource.
type PoolState int

// Pool lifecycle states. A pool starts Uninitialized, passes through
// Acquiring while a driver handshake is in flight, and never leaves Closed.
const (
	StateUninitialized PoolState = iota
	StateAcquiring
	StateReady
	StateClosed
)

func (s PoolState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAcquiring:
		return "acquiring"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	State        PoolState
	Acquires     uint64
	Releases     uint64
	OpenFailures uint64
	ActiveLeases int
}

// Option configures a Pool.
type Option func(*Pool) error

// WithLogger sets the logger used for lease and lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		p.logger = logger
		return nil
	}
}

// Pool lazily opens one shared connection resource and hands out scoped
// leases on it. A failed open leaves the pool uninitialized so the next
// caller may attempt again; the pool itself never retries.
type Pool struct {
	cfg    Config
	driver Driver
	logger *slog.Logger

	mu       sync.Mutex
	state    PoolState
	db       DB
	settled  chan struct{} // closed when the in-flight open finishes
	acquires uint64
	releases uint64
	failures uint64
	leases   int
}

// NewPool creates a pool for the endpoint described by cfg. The driver is
// injected rather than looked up so tests can substitute counting fakes; see
// the drivers package for the real implementations.
func NewPool(cfg Config, driver Driver, opts ...Option) (*Pool, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}
	p := &Pool{
		cfg:    cfg,
		driver: driver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("applying pool option: %w", err)
		}
	}
	return p, nil
}

// Config returns the endpoint this pool serves.
func (p *Pool) Config() Config {
	return p.cfg
}

// State returns the current lifecycle state.
func (p *Pool) State() PoolState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stats returns a snapshot of pool activity.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		State:        p.state,
		Acquires:     p.acquires,
		Releases:     p.releases,
		OpenFailures: p.failures,
		ActiveLeases: p.leases,
	}
}

// Acquire returns a leased handle on the shared resource, opening it on first
// use. Release the handle on every exit path, typically via defer. A caller
// cancelled while the handshake is in flight receives ctx's error and holds
// nothing; the handshake itself is aborted and cleaned up by the driver.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	for {
		p.mu.Lock()
		switch p.state {
		case StateClosed:
			p.mu.Unlock()
			return nil, ErrPoolClosed

		case StateReady:
			conn := p.lease()
			p.mu.Unlock()
			return conn, nil

		case StateAcquiring:
			settled := p.settled
			p.mu.Unlock()
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("acquiring connection: %w", ctx.Err())
			case <-settled:
			}

		case StateUninitialized:
			p.state = StateAcquiring
			p.settled = make(chan struct{})
			p.mu.Unlock()
			if err := p.open(ctx); err != nil {
				return nil, err
			}
		}
	}
}

// open performs the driver handshake outside the pool lock so that waiters
// and Close stay responsive, then settles the state transition.
func (p *Pool) open(ctx context.Context) error {
	p.logger.Debug("opening database", "endpoint", p.cfg.String())
	db, err := p.driver.Open(ctx, p.cfg)

	p.mu.Lock()
	close(p.settled)
	p.settled = nil
	if p.state == StateClosed {
		// Close won the race; the fresh resource must not outlive it.
		p.mu.Unlock()
		if err == nil {
			db.Close()
		}
		return ErrPoolClosed
	}
	if err != nil {
		p.failures++
		p.state = StateUninitialized
		p.mu.Unlock()
		poolOpenFailures.Inc()
		if ctx.Err() != nil {
			// cancelled mid-handshake, not an endpoint failure
			return fmt.Errorf("acquiring connection: %w", ctx.Err())
		}
		p.logger.Warn("opening database failed", "endpoint", p.cfg.String(), "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	p.db = db
	p.state = StateReady
	p.mu.Unlock()
	p.logger.Debug("database ready", "endpoint", p.cfg.String())
	return nil
}

// lease hands out a Conn for the ready resource. Callers hold p.mu.
func (p *Pool) lease() *Conn {
	p.acquires++
	p.leases++
	poolAcquires.Inc()
	conn := &Conn{
		pool: p,
		db:   p.db,
		id:   uuid.New().String(),
	}
	p.logger.Debug("leased connection", "lease_id", conn.id)
	return conn
}

// Ping acquires a lease, verifies the endpoint answers and releases. Like
// Acquire it opens the resource on first use.
func (p *Pool) Ping(ctx context.Context) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Close shuts the pool down and releases the shared resource. No acquisition
// can succeed afterwards; a pool never leaves the closed state. Close is safe
// to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.state == StateClosed {
		p.mu.Unlock()
		return nil
	}
	db := p.db
	p.db = nil
	p.state = StateClosed
	p.mu.Unlock()

	p.logger.Debug("pool closed", "endpoint", p.cfg.String())
	if db != nil {
		if err := db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}
	return nil
}

// Conn is a leased handle on the pool's shared resource.
type Conn struct {
	pool    *Pool
	db      DB
	id      string
	release sync.Once
}

// ID returns the lease identifier, used for log correlation.
func (c *Conn) ID() string {
	return c.id
}

// DB exposes the underlying driver resource for native use.
func (c *Conn) DB() DB {
	return c.db
}

// Ping verifies the leased resource can still reach its endpoint.
func (c *Conn) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// Release returns the lease to the pool. Releasing more than once is a no-op,
// so it is always safe to defer.
func (c *Conn) Release() {
	c.release.Do(func() {
		p := c.pool
		p.mu.Lock()
		p.releases++
		p.leases--
		p.mu.Unlock()
		poolReleases.Inc()
		p.logger.Debug("released connection", "lease_id", c.id)
	})
}
