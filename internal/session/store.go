package session

import "context"

// Store is a raw document store keyed by phone number.
// Get returns ErrNotFound when no document exists; Save overwrites the whole document.
type Store interface {
	Get(ctx context.Context, phone string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, phone string) error
}
