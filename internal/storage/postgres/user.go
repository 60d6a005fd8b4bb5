package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"flickr_syncer/internal/domain"
)

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Upsert inserts or updates a photo owner keyed by the Flickr NSID.
func (s *UserStore) Upsert(ctx context.Context, owner *domain.Owner) error {
	query := `
		INSERT INTO users (id, username, realname, location)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			realname = EXCLUDED.realname,
			location = EXCLUDED.location`

	_, err := s.db.ExecContext(ctx, query,
		owner.ID,
		owner.Username,
		owner.Realname,
		owner.Location,
	)
	return err
}
