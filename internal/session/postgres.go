package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	pgSelect = `SELECT data FROM sessions WHERE phone = $1`
	pgUpsert = `
INSERT INTO sessions (phone, data, last_interaction_at, created_at, updated_at)
VALUES (:phone, :data, :last_interaction_at, :created_at, :updated_at)
ON CONFLICT (phone) DO UPDATE SET
    data = EXCLUDED.data,
    last_interaction_at = EXCLUDED.last_interaction_at,
    updated_at = EXCLUDED.updated_at`
	pgDelete = `DELETE FROM sessions WHERE phone = $1`
)

// PostgresStore keeps sessions as JSONB documents in the sessions table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle. The schema comes from ./migrations.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type sessionRow struct {
	Phone             string    `db:"phone"`
	Data              string    `db:"data"`
	LastInteractionAt time.Time `db:"last_interaction_at"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// Get loads and decodes the stored document.
func (p *PostgresStore) Get(ctx context.Context, phone string) (*Session, error) {
	var raw []byte
	if err := p.db.GetContext(ctx, &raw, pgSelect, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Save upserts the full document.
func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	row := sessionRow{
		Phone:             s.Phone,
		Data:              string(data),
		LastInteractionAt: s.LastInteractionAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if _, err := p.db.NamedExecContext(ctx, pgUpsert, row); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete removes the row for phone, if any.
func (p *PostgresStore) Delete(ctx context.Context, phone string) error {
	if _, err := p.db.ExecContext(ctx, pgDelete, phone); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
