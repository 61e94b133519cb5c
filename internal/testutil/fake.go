package testutil

import (
	"context"
	"sync"

	"agentdb/internal/dbconn"
)

// FakeDriver is a dbconn.Driver double that counts opened and closed
// resources. With Handshake set, Open blocks until the channel is closed or
// ctx is cancelled, mimicking a suspended network handshake; a cancelled
// handshake tears its partial resource down again, the way the real drivers
// do.
type FakeDriver struct {
	OpenErr   error         // returned by Open once the handshake completes
	PingErr   error         // returned by Ping on opened databases
	Handshake chan struct{} // nil completes the handshake immediately

	mu     sync.Mutex
	opens  int
	closes int
	pings  int
}

func (d *FakeDriver) Open(ctx context.Context, _ dbconn.Config) (dbconn.DB, error) {
	d.mu.Lock()
	d.opens++
	d.mu.Unlock()

	if d.Handshake != nil {
		select {
		case <-ctx.Done():
			d.countClose()
			return nil, ctx.Err()
		case <-d.Handshake:
		}
	}
	if d.OpenErr != nil {
		d.countClose()
		return nil, d.OpenErr
	}
	return &FakeDB{driver: d}, nil
}

// Opens returns how many handshakes were started.
func (d *FakeDriver) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

// Closes returns how many resources were released, counting partial
// resources torn down by failed or cancelled handshakes.
func (d *FakeDriver) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// Pings returns how many pings were answered.
func (d *FakeDriver) Pings() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pings
}

func (d *FakeDriver) countClose() {
	d.mu.Lock()
	d.closes++
	d.mu.Unlock()
}

// FakeDB is the resource handed out by FakeDriver.
type FakeDB struct {
	driver *FakeDriver
}

func (f *FakeDB) Ping(_ context.Context) error {
	f.driver.mu.Lock()
	f.driver.pings++
	f.driver.mu.Unlock()
	return f.driver.PingErr
}

func (f *FakeDB) Close() error {
	f.driver.countClose()
	return nil
}
