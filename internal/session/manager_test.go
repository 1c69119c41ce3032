package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager() (*Manager, *MemoryStore, *fakeClock) {
	store := NewMemoryStore()
	clock := &fakeClock{now: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	return NewManager(store, 30*time.Minute, WithClock(clock.Now)), store, clock
}

func intPtr(v int) *int { return &v }

func TestGetOrCreateReportsCreation(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	s, created, err := m.GetOrCreate(ctx, "5511999990000")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if !created || s.Step != FirstStep {
		t.Fatalf("expected fresh step-one session, got created=%v step=%d", created, s.Step)
	}
	if s.CreatedAt.IsZero() || !s.CreatedAt.Equal(s.LastInteractionAt) || !s.CreatedAt.Equal(s.UpdatedAt) {
		t.Fatalf("timestamps not initialised: %+v", s)
	}

	again, created, err := m.GetOrCreate(ctx, "5511999990000")
	if err != nil {
		t.Fatalf("second get or create: %v", err)
	}
	if created || again.Phone != s.Phone {
		t.Fatalf("expected existing session, created=%v", created)
	}
}

func TestExpiredSessionIsDeletedOnRead(t *testing.T) {
	m, store, clock := newTestManager()
	ctx := context.Background()

	s, _, err := m.GetOrCreate(ctx, "5511")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Step = 4
	s.CategoryID = intPtr(1)
	s.ServiceID = intPtr(2)
	if err := m.Update(ctx, s); err != nil {
		t.Fatalf("update: %v", err)
	}

	clock.now = clock.now.Add(31 * time.Minute)
	if _, err := m.Get(ctx, "5511"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expired session should be deleted, store has %d", store.Len())
	}

	fresh, created, err := m.GetOrCreate(ctx, "5511")
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if !created || fresh.Step != FirstStep || fresh.CategoryID != nil || fresh.ServiceID != nil {
		t.Fatalf("expected clean session, got %+v", fresh)
	}
}

func TestSessionWithinWindowSurvives(t *testing.T) {
	m, _, clock := newTestManager()
	ctx := context.Background()
	if _, err := m.Create(ctx, "5511"); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.now = clock.now.Add(30 * time.Minute)
	if _, err := m.Get(ctx, "5511"); err != nil {
		t.Fatalf("session at exactly the window should live: %v", err)
	}
}

func TestMissingLastInteractionIsExpired(t *testing.T) {
	m, store, _ := newTestManager()
	ctx := context.Background()
	_ = store.Save(ctx, &Session{Phone: "5511", Step: 3})
	if _, err := m.Get(ctx, "5511"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !IsExpired(nil, time.Minute, time.Now()) {
		t.Fatal("nil session should be expired")
	}
}

func TestUpdateRefreshesTimestamps(t *testing.T) {
	m, _, clock := newTestManager()
	ctx := context.Background()
	s, err := m.Create(ctx, "5511")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := s.CreatedAt
	clock.now = clock.now.Add(10 * time.Minute)
	s.Step = 2
	if err := m.Update(ctx, s); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := m.Get(ctx, "5511")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Step != 2 || !got.CreatedAt.Equal(created) || !got.LastInteractionAt.Equal(clock.now) {
		t.Fatalf("unexpected session after update: %+v", got)
	}
	if err := m.Update(ctx, &Session{}); err == nil {
		t.Fatal("expected error for session without phone")
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	s := &Session{Phone: "1", Hour: intPtr(0)}
	_ = store.Save(ctx, s)
	*s.Hour = 600

	got, err := store.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Hour == nil || *got.Hour != 0 {
		t.Fatalf("stored hour mutated through caller pointer: %v", got.Hour)
	}
}

func TestResetKeepsIdentity(t *testing.T) {
	now := time.Now()
	s := &Session{Phone: "1", Step: 7, CategoryID: intPtr(1), ProfessionalName: "Ana", CreatedAt: now}
	s.Reset()
	if s.Phone != "1" || s.Step != FirstStep || s.CategoryID != nil || s.ProfessionalName != "" || !s.CreatedAt.Equal(now) {
		t.Fatalf("unexpected reset result: %+v", s)
	}
}
