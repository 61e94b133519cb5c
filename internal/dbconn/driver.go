package dbconn

import "context"

// Driver opens the shared database resource described by a Config.
// Implementations must release any partially established resource before
// returning an error, including when ctx is cancelled mid-handshake.
type Driver interface {
	Open(ctx context.Context, cfg Config) (DB, error)
}

// DB is the driver-owned connection resource shared through a Pool. Checkout
// and checkin of individual network connections is serialized inside the
// driver library; the Pool adds lifecycle state on top, not locking.
type DB interface {
	Ping(ctx context.Context) error
	Close() error
}
