package dbconn

import "errors"

// Common resolution and acquisition errors
var (
	ErrInvalidDescriptor = errors.New("invalid connection descriptor")
	ErrUnsupportedScheme = errors.New("unsupported driver scheme")
	ErrUnavailable       = errors.New("database unavailable")
	ErrPoolClosed        = errors.New("connection pool closed")
	ErrNilDriver         = errors.New("nil driver")
)

// IsInvalidDescriptorError returns true if the error reports a malformed descriptor
func IsInvalidDescriptorError(err error) bool {
	return errors.Is(err, ErrInvalidDescriptor)
}

// IsUnsupportedSchemeError returns true if the error reports an unrecognized driver scheme
func IsUnsupportedSchemeError(err error) bool {
	return errors.Is(err, ErrUnsupportedScheme)
}

// IsUnavailableError returns true if the error reports an unreachable or rejecting endpoint
func IsUnavailableError(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsPoolClosedError returns true if the error reports acquisition from a closed pool
func IsPoolClosedError(err error) bool {
	return errors.Is(err, ErrPoolClosed)
}
