package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// LeaseStore is the durable coordination primitive behind the lease manager:
// a single row per lease name, flipped with a conditional update. Postgres
// serializes the conditional write, so at most one caller wins.
type LeaseStore struct {
	db *sqlx.DB
}

func NewLeaseStore(db *sqlx.DB) *LeaseStore {
	return &LeaseStore{db: db}
}

// TryAcquire attempts to take the lease without blocking. It returns false
// when another holder has it; it never steals a held lease.
func (s *LeaseStore) TryAcquire(ctx context.Context, name, holder string) (bool, error) {
	query := `
		INSERT INTO sync_lease (name, locked, holder, acquired_at)
		VALUES ($1, TRUE, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET
			locked = TRUE,
			holder = EXCLUDED.holder,
			acquired_at = NOW()
		WHERE sync_lease.locked = FALSE
		RETURNING name`

	var got string
	err := s.db.GetContext(ctx, &got, query, name, holder)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Release clears the lease if this holder still owns it. Releasing a lease
// someone else holds (after manual intervention) is a no-op.
func (s *LeaseStore) Release(ctx context.Context, name, holder string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sync_lease SET locked = FALSE WHERE name = $1 AND holder = $2",
		name, holder)
	return err
}
