package storage

import (
	"context"
	"errors"
)

// SessionStore persists one opaque document per browser session. The guest
// cart is the only document stored here; every surface that reads or writes
// it goes through the same key, so a popover and a full cart page never
// diverge.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) ([]byte, error)
	Set(ctx context.Context, sessionID string, data []byte) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrNotFound = errors.New("no data for session")
