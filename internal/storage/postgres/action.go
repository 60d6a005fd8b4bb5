package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ActionStore holds the per-action cursor: the last-processed timestamp
// watermark for a named recurring sync action. Monotonicity is the caller's
// contract; the store only persists.
type ActionStore struct {
	db *sqlx.DB
}

func NewActionStore(db *sqlx.DB) *ActionStore {
	return &ActionStore{db: db}
}

// Get returns the cursor timestamp for action, with ok=false when no cursor
// has been stored yet.
func (s *ActionStore) Get(ctx context.Context, action string) (int64, bool, error) {
	var timestamp int64
	err := s.db.GetContext(ctx, &timestamp,
		"SELECT timestamp FROM actions WHERE action = $1", action)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return timestamp, true, nil
}

// Set creates or updates the cursor for action.
func (s *ActionStore) Set(ctx context.Context, action string, timestamp int64) error {
	query := `
		INSERT INTO actions (action, timestamp)
		VALUES ($1, $2)
		ON CONFLICT (action) DO UPDATE SET
			timestamp = EXCLUDED.timestamp`

	_, err := s.db.ExecContext(ctx, query, action, timestamp)
	return err
}
