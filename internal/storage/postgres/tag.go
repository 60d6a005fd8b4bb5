package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"flickr_syncer/internal/domain"
)

type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// Upsert inserts or updates one tag keyed by (photo_id, tag_id). Tags that
// disappear upstream are never deleted here; the sync only ever upserts.
func (s *TagStore) Upsert(ctx context.Context, tag *domain.Tag) error {
	info, err := json.Marshal(tag.Info)
	if err != nil {
		return fmt.Errorf("marshal tag info: %w", err)
	}

	query := `
		INSERT INTO photos_tags (photo_id, tag_id, tag_info)
		VALUES ($1, $2, $3)
		ON CONFLICT (photo_id, tag_id) DO UPDATE SET
			tag_info = EXCLUDED.tag_info`

	_, err = s.db.ExecContext(ctx, query, tag.PhotoID, tag.TagID, info)
	return err
}

// UpsertBatch upserts all tags of one photo.
func (s *TagStore) UpsertBatch(ctx context.Context, tags []domain.Tag) error {
	for i := range tags {
		if err := s.Upsert(ctx, &tags[i]); err != nil {
			return fmt.Errorf("upsert tag %s: %w", tags[i].TagID, err)
		}
	}
	return nil
}

// GetByPhotoID returns the stored tags for one photo.
func (s *TagStore) GetByPhotoID(ctx context.Context, photoID string) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT photo_id, tag_id, tag_info FROM photos_tags WHERE photo_id = $1 ORDER BY tag_id",
		photoID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		var info []byte
		if err := rows.Scan(&tag.PhotoID, &tag.TagID, &info); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(info, &tag.Info); err != nil {
			return nil, fmt.Errorf("unmarshal tag info: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}
