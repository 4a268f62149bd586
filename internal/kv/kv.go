// Package kv defines the string-keyed blob store the session layer persists to.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when nothing is stored under a key.
var ErrNotFound = errors.New("key not found")

// Store is a string-keyed blob store. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// PersistenceError wraps a failure reported by a Store.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Wrap reports err as a PersistenceError unless it is nil or ErrNotFound.
func Wrap(op, key string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}

	return &PersistenceError{Op: op, Key: key, Err: err}
}
