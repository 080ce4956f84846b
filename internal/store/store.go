// Package store persists one session snapshot between runs. Two backends
// share the same INI payload: a file on disk and a single redis key.
package store

import (
	"context"
	"errors"

	"github.com/quietpawn/gambit/internal/domain"
)

var (
	// ErrNoSession reports that no saved session exists.
	ErrNoSession = errors.New("no saved session")
	// ErrCorrupt reports a saved session that cannot be trusted. Callers
	// are expected to discard it and start fresh.
	ErrCorrupt = errors.New("saved session is corrupt")
)

// Store reads and writes the single saved session.
type Store interface {
	Save(ctx context.Context, snap domain.SessionSnapshot) error
	Load(ctx context.Context) (domain.SessionSnapshot, error)
	Clear(ctx context.Context) error
}
