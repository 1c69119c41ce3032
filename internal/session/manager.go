package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
)

// Manager layers expiry and timestamps over a Store.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager wraps store with an inactivity window of ttl.
func NewManager(store Store, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{store: store, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the inactivity window.
func (m *Manager) TTL() time.Duration { return m.ttl }

// IsExpired reports whether s is past the inactivity window.
func (m *Manager) IsExpired(s *Session) bool {
	return IsExpired(s, m.ttl, m.now())
}

// Get loads the live session for phone. An expired document is deleted and
// reported as ErrNotFound.
func (m *Manager) Get(ctx context.Context, phone string) (*Session, error) {
	s, err := m.store.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !m.IsExpired(s) {
		return s, nil
	}
	if err := m.store.Delete(ctx, phone); err != nil {
		return nil, fmt.Errorf("delete expired session: %w", err)
	}
	logger.Debug(ctx, logger.CompSession, "session.expired",
		slog.Int("step", s.Step),
		slog.Time("last_interaction_at", s.LastInteractionAt),
	)
	return nil, ErrNotFound
}

// Create writes a fresh step-one session for phone.
func (m *Manager) Create(ctx context.Context, phone string) (*Session, error) {
	now := m.now().UTC()
	s := &Session{
		Phone:             phone,
		Step:              FirstStep,
		CreatedAt:         now,
		UpdatedAt:         now,
		LastInteractionAt: now,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	logger.Debug(ctx, logger.CompSession, "session.created", slog.String("status", "ok"))
	return s, nil
}

// GetOrCreate returns the live session for phone, creating one when absent.
// created reports whether the session was made by this call.
func (m *Manager) GetOrCreate(ctx context.Context, phone string) (s *Session, created bool, err error) {
	s, err = m.Get(ctx, phone)
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	s, err = m.Create(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// Update refreshes UpdatedAt and LastInteractionAt and writes s in full.
// Concurrent updates for one phone are last-write-wins.
func (m *Manager) Update(ctx context.Context, s *Session) error {
	if s == nil || s.Phone == "" {
		return fmt.Errorf("update session: missing phone")
	}
	now := m.now().UTC()
	s.UpdatedAt = now
	s.LastInteractionAt = now
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}
