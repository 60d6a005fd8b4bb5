package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"flickr_syncer/internal/domain"
)

type ExifStore struct {
	db *sqlx.DB
}

func NewExifStore(db *sqlx.DB) *ExifStore {
	return &ExifStore{db: db}
}

// Upsert inserts or updates the exif document for one photo.
func (s *ExifStore) Upsert(ctx context.Context, exif *domain.ExifInfo) error {
	info, err := json.Marshal(exif.Info)
	if err != nil {
		return fmt.Errorf("marshal exif info: %w", err)
	}

	query := `
		INSERT INTO photos_exifs (photo_id, exif_info)
		VALUES ($1, $2)
		ON CONFLICT (photo_id) DO UPDATE SET
			exif_info = EXCLUDED.exif_info`

	_, err = s.db.ExecContext(ctx, query, exif.PhotoID, info)
	return err
}
