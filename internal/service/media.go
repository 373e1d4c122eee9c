package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/storage"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// MediaService registers uploaded objects and serves their metadata.
type MediaService struct {
	mediaRepo repository.MediaRepository
	storage   storage.Storage
	rewriter  *media.Rewriter
	logger    *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(mediaRepo repository.MediaRepository, st storage.Storage, rewriter *media.Rewriter, logger *slog.Logger) *MediaService {
	return &MediaService{
		mediaRepo: mediaRepo,
		storage:   st,
		rewriter:  rewriter,
		logger:    logger,
	}
}

// UploadInput holds the data for registering an uploaded object.
type UploadInput struct {
	Kind        string
	OwnerType   string
	OwnerID     int64
	SortOrder   int
	ContentType string
	Body        io.Reader
}

// Upload stores the object and registers its media row.
func (s *MediaService) Upload(ctx context.Context, input UploadInput) (*domain.MediaFile, error) {
	if !domain.IsValidMediaKind(input.Kind) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid media kind %q", input.Kind))
	}
	if !domain.IsValidMediaOwnerType(input.OwnerType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid media owner type %q", input.OwnerType))
	}

	key := fmt.Sprintf("%s/%d/%s", input.OwnerType, input.OwnerID, uuid.New().String())
	if err := s.storage.Upload(ctx, key, input.ContentType, input.Body); err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	file := &domain.MediaFile{
		Kind:       input.Kind,
		OwnerType:  input.OwnerType,
		OwnerID:    input.OwnerID,
		StorageKey: key,
		SortOrder:  input.SortOrder,
	}

	if err := s.mediaRepo.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, []string{key}); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete orphaned object",
				slog.String("storage_key", key),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("register media: %w", err)
	}

	file.URL = s.rewriter.RewriteURL(ctx, file.StorageKey)

	s.logger.InfoContext(ctx, "media uploaded",
		slog.Int64("media_id", file.ID),
		slog.String("owner_type", input.OwnerType),
		slog.Int64("owner_id", input.OwnerID),
	)

	return file, nil
}

// ListByOwner retrieves the owner's media with URLs rewritten.
func (s *MediaService) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]domain.MediaFile, error) {
	if !domain.IsValidMediaOwnerType(ownerType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid media owner type %q", ownerType))
	}

	files, err := s.mediaRepo.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	s.rewriter.Rewrite(ctx, files)

	return files, nil
}

// Delete removes a media row and then its storage object; a failing object
// delete is logged, the row stays gone.
func (s *MediaService) Delete(ctx context.Context, id int64) error {
	file, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get media: %w", err)
	}

	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}

	if err := s.storage.Delete(ctx, []string{file.StorageKey}); err != nil {
		s.logger.WarnContext(ctx, "failed to delete storage object",
			slog.Int64("media_id", id),
			slog.String("storage_key", file.StorageKey),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "media deleted",
		slog.Int64("media_id", id),
	)

	return nil
}
