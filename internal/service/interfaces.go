package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"flickr_syncer/internal/domain"
	"flickr_syncer/internal/events"
)

type PhotoStore interface {
	Upsert(ctx context.Context, photo *domain.Photo) error
}

type TagStore interface {
	UpsertBatch(ctx context.Context, tags []domain.Tag) error
}

type ExifStore interface {
	Upsert(ctx context.Context, exif *domain.ExifInfo) error
}

type UserStore interface {
	Upsert(ctx context.Context, owner *domain.Owner) error
}

type MessageStore interface {
	Get(ctx context.Context, photoID string) (*domain.PublishedMessage, error)
	Put(ctx context.Context, msg *domain.PublishedMessage) error
}

type CursorStore interface {
	Get(ctx context.Context, action string) (int64, bool, error)
	Set(ctx context.Context, action string, timestamp int64) error
}

type Source interface {
	RecentlyUpdated(ctx context.Context, minDate int64, page int) (*domain.PhotoPage, error)
	PhotoDetail(ctx context.Context, id, secret string) (*domain.PhotoDetail, error)
	PhotoURL(server, id, secret string) string
}

type Publisher interface {
	SendPhoto(ctx context.Context, chatID, photoURL, caption string) (int64, error)
	EditMessageCaption(ctx context.Context, chatID string, messageID int64, caption string) error
}

type Lease interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type ErrorReporter interface {
	Report(ctx context.Context, text string)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event events.PhotoEvent) error
}
