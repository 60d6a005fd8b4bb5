package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"flickr_syncer/internal/domain"
)

type PhotoStore struct {
	db *sqlx.DB
}

func NewPhotoStore(db *sqlx.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

// Upsert inserts or updates a photo keyed by its Flickr id. Calling it twice
// with the same input leaves the row unchanged the second time.
func (s *PhotoStore) Upsert(ctx context.Context, photo *domain.Photo) error {
	info, err := json.Marshal(photo.Info)
	if err != nil {
		return fmt.Errorf("marshal photo info: %w", err)
	}

	query := `
		INSERT INTO photos (id, server, secret, owner, info)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			server = EXCLUDED.server,
			secret = EXCLUDED.secret,
			owner = EXCLUDED.owner,
			info = EXCLUDED.info`

	_, err = s.db.ExecContext(ctx, query,
		photo.ID,
		photo.Server,
		photo.Secret,
		photo.Owner,
		info,
	)
	return err
}
