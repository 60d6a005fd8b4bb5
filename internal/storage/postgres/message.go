package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"flickr_syncer/internal/domain"
)

type MessageStore struct {
	db *sqlx.DB
}

func NewMessageStore(db *sqlx.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Get returns the published-message record for a photo, or nil when the
// photo has never been published.
func (s *MessageStore) Get(ctx context.Context, photoID string) (*domain.PublishedMessage, error) {
	var msg domain.PublishedMessage
	query := `
		SELECT photo_id, chat_id, message_id, message_hash, photo_url
		FROM photos_messages
		WHERE photo_id = $1`

	err := s.db.GetContext(ctx, &msg, query, photoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Put inserts or overwrites the published-message record for a photo.
func (s *MessageStore) Put(ctx context.Context, msg *domain.PublishedMessage) error {
	query := `
		INSERT INTO photos_messages (photo_id, chat_id, message_id, message_hash, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (photo_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			message_id = EXCLUDED.message_id,
			message_hash = EXCLUDED.message_hash,
			photo_url = EXCLUDED.photo_url`

	_, err := s.db.ExecContext(ctx, query,
		msg.PhotoID,
		msg.ChatID,
		msg.MessageID,
		msg.MessageHash,
		msg.PhotoURL,
	)
	return err
}
