package cachefront

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected means a store is configured but Connect has not
	// completed (or Close was called). It is a lifecycle bug in the caller.
	ErrNotConnected = errors.New("cachefront: store configured but not connected")
	// ErrNoStore is returned by Connect when the façade runs in bypass mode.
	ErrNoStore = errors.New("cachefront: no store configured")
	// ErrAlreadyConnected is returned by a second Connect.
	ErrAlreadyConnected = errors.New("cachefront: already connected")

	errUnknownValue = errors.New("cachefront: unsupported Value implementation")
)

// OpError records the failed operation and the storage key it targeted.
type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cachefront: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cachefront: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Key: key, Err: err}
}
