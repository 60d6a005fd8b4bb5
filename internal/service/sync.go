package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"flickr_syncer/internal/config"
	"flickr_syncer/internal/domain"
	"flickr_syncer/internal/events"
	"flickr_syncer/internal/message"
)

// defaultCursor seeds the cursor on the very first run. Flickr rejects a
// min_date of 0, so the epoch starts one second in.
const defaultCursor int64 = 1

type SyncService struct {
	source    Source
	photos    PhotoStore
	tags      TagStore
	exifs     ExifStore
	users     UserStore
	messages  MessageStore
	cursors   CursorStore
	publisher Publisher
	lease     Lease
	reporter  ErrorReporter
	events    EventPublisher
	logger    *slog.Logger
	config    config.SyncConfig
	channelID string
}

func NewSyncService(
	source Source,
	photos PhotoStore,
	tags TagStore,
	exifs ExifStore,
	users UserStore,
	messages MessageStore,
	cursors CursorStore,
	publisher Publisher,
	lease Lease,
	reporter ErrorReporter,
	eventPublisher EventPublisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
	channelID string,
) *SyncService {
	return &SyncService{
		source:    source,
		photos:    photos,
		tags:      tags,
		exifs:     exifs,
		users:     users,
		messages:  messages,
		cursors:   cursors,
		publisher: publisher,
		lease:     lease,
		reporter:  reporter,
		events:    eventPublisher,
		logger:    logger,
		config:    cfg,
		channelID: channelID,
	}
}

// Sync runs one full synchronization pass under the cross-instance lease.
// When the lease is held elsewhere the run is skipped cleanly. Run failures
// are reported to the error chat; releasing the lease is attempted even then,
// and a release that exhausts its retries escalates into the returned error.
func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := time.Now()
	stats := &domain.SyncStats{RunID: uuid.NewString()}
	logger := s.logger.With("run_id", stats.RunID)

	granted, err := s.lease.Acquire(ctx)
	if err != nil {
		return stats, fmt.Errorf("acquire lease: %w", err)
	}
	if !granted {
		stats.LeaseSkip = true
		logger.Info("lease held by another instance, skipping run")
		return stats, nil
	}

	logger.Info("starting sync", "action", s.config.Action)

	runErr := s.run(ctx, logger, stats)
	if runErr != nil {
		logger.Error("sync failed", "error", runErr)
		s.reporter.Report(ctx, runErr.Error())
	}

	// The lease must come back even when the run context is already gone.
	if err := s.lease.Release(context.WithoutCancel(ctx)); err != nil {
		logger.Error("lease release failed", "error", err)
		s.reporter.Report(ctx, err.Error())
		runErr = errors.Join(runErr, err)
	}

	stats.Duration = time.Since(startTime)
	if runErr == nil {
		logger.Info("sync completed",
			"fetched", stats.Fetched,
			"published", stats.Published,
			"edited", stats.Edited,
			"unchanged", stats.Unchanged,
			"private", stats.Private,
			"cursor_from", stats.CursorFrom,
			"cursor_to", stats.CursorTo,
			"duration", stats.Duration,
		)
	}

	return stats, runErr
}

func (s *SyncService) run(ctx context.Context, logger *slog.Logger, stats *domain.SyncStats) error {
	cursor, ok, err := s.cursors.Get(ctx, s.config.Action)
	if err != nil {
		return fmt.Errorf("read cursor: %w", err)
	}
	if !ok {
		cursor = defaultCursor
		if err := s.cursors.Set(ctx, s.config.Action, cursor); err != nil {
			return fmt.Errorf("seed cursor: %w", err)
		}
		logger.Info("seeded cursor", "action", s.config.Action)
	}
	stats.CursorFrom = cursor

	// The next run resumes from this run's start, so photos updated while
	// this run is in flight are picked up again.
	runStart := time.Now().Unix()

	for page := 1; ; page++ {
		result, err := s.source.RecentlyUpdated(ctx, cursor, page)
		if err != nil {
			return fmt.Errorf("fetch page %d: %w", page, err)
		}

		logger.Debug("fetched page",
			"page", result.Page,
			"pages", result.Pages,
			"photos", len(result.Photos),
		)
		stats.Fetched += len(result.Photos)

		for i := range result.Photos {
			if err := s.processPhoto(ctx, logger, &result.Photos[i], stats); err != nil {
				return fmt.Errorf("process photo %s: %w", result.Photos[i].ID, err)
			}
		}

		if page >= result.Pages {
			break
		}
	}

	// Committed only after every page succeeded; a failed run repeats from
	// the previous cursor.
	if err := s.cursors.Set(ctx, s.config.Action, runStart); err != nil {
		return fmt.Errorf("advance cursor: %w", err)
	}
	stats.CursorTo = runStart

	return nil
}

func (s *SyncService) processPhoto(ctx context.Context, logger *slog.Logger, stub *domain.PhotoStub, stats *domain.SyncStats) error {
	detail, err := s.source.PhotoDetail(ctx, stub.ID, stub.Secret)
	if err != nil {
		return err
	}

	// Metadata is stored for every photo, public or not.
	if err := s.photos.Upsert(ctx, &detail.Photo); err != nil {
		return fmt.Errorf("upsert photo: %w", err)
	}
	if len(detail.Tags) > 0 {
		if err := s.tags.UpsertBatch(ctx, detail.Tags); err != nil {
			return fmt.Errorf("upsert tags: %w", err)
		}
	}
	if err := s.exifs.Upsert(ctx, &detail.Exif); err != nil {
		return fmt.Errorf("upsert exif: %w", err)
	}
	if err := s.users.Upsert(ctx, &detail.Owner); err != nil {
		return fmt.Errorf("upsert owner: %w", err)
	}

	if !detail.Photo.Info.Permission.IsPublic {
		stats.Private++
		logger.Debug("photo not public, skipping publish", "photo_id", stub.ID)
		return nil
	}

	caption := message.Caption(&detail.Photo, &detail.Exif, detail.Tags)
	hash := message.Hash(caption)
	photoURL := s.source.PhotoURL(detail.Photo.Server, detail.Photo.ID, detail.Photo.Secret)

	existing, err := s.messages.Get(ctx, detail.Photo.ID)
	if err != nil {
		return fmt.Errorf("read published message: %w", err)
	}

	switch {
	case existing == nil || existing.ChatID != s.channelID:
		messageID, err := s.publisher.SendPhoto(ctx, s.channelID, photoURL, caption)
		if err != nil {
			return fmt.Errorf("send photo: %w", err)
		}
		record := &domain.PublishedMessage{
			PhotoID:     detail.Photo.ID,
			ChatID:      s.channelID,
			MessageID:   messageID,
			MessageHash: hash,
			PhotoURL:    photoURL,
		}
		if err := s.messages.Put(ctx, record); err != nil {
			return fmt.Errorf("record published message: %w", err)
		}
		stats.Published++
		logger.Info("published photo", "photo_id", detail.Photo.ID, "message_id", messageID)
		s.emitEvent(ctx, logger, events.ActionPublished, record)

	case existing.MessageHash == hash:
		stats.Unchanged++
		logger.Debug("photo unchanged", "photo_id", detail.Photo.ID)

	default:
		if err := s.publisher.EditMessageCaption(ctx, existing.ChatID, existing.MessageID, caption); err != nil {
			return fmt.Errorf("edit caption: %w", err)
		}
		record := &domain.PublishedMessage{
			PhotoID:     detail.Photo.ID,
			ChatID:      existing.ChatID,
			MessageID:   existing.MessageID,
			MessageHash: hash,
			PhotoURL:    photoURL,
		}
		if err := s.messages.Put(ctx, record); err != nil {
			return fmt.Errorf("record edited message: %w", err)
		}
		stats.Edited++
		logger.Info("edited photo caption", "photo_id", detail.Photo.ID, "message_id", existing.MessageID)
		s.emitEvent(ctx, logger, events.ActionEdited, record)
	}

	return nil
}

// emitEvent is best effort. Event delivery never fails a run.
func (s *SyncService) emitEvent(ctx context.Context, logger *slog.Logger, action string, record *domain.PublishedMessage) {
	if s.events == nil {
		return
	}
	event := events.PhotoEvent{
		Action:      action,
		PhotoID:     record.PhotoID,
		ChatID:      record.ChatID,
		MessageID:   record.MessageID,
		MessageHash: record.MessageHash,
		PhotoURL:    record.PhotoURL,
		Timestamp:   time.Now(),
	}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		logger.Error("publish event failed", "photo_id", record.PhotoID, "error", err)
	}
}
