package crud

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// Service implements the generic business contract for a flat entity: create,
// paginated list ordered by ascending id, get, partial update, delete. Every
// operation logs one line on success; failures are classified by the
// repository and wrapped, never swallowed.
type Service[T any] struct {
	repo     *Repository[T]
	resource string
	logger   *slog.Logger
}

// NewService creates a generic service over a generic repository.
func NewService[T any](repo *Repository[T], resource string, logger *slog.Logger) *Service[T] {
	return &Service[T]{
		repo:     repo,
		resource: resource,
		logger:   logger,
	}
}

// Create inserts the entity and returns it with generated id and timestamps.
func (s *Service[T]) Create(ctx context.Context, e *T) (*T, error) {
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.resource, err)
	}

	s.logger.InfoContext(ctx, s.resource+" created",
		slog.Int64("id", s.repo.m.ID(e)),
	)

	return e, nil
}

// List returns one page of entities and the total count.
func (s *Service[T]) List(ctx context.Context, params pagination.Params) ([]T, int, error) {
	items, total, err := s.repo.List(ctx, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", s.resource, err)
	}
	return items, total, nil
}

// ListBy returns one page of entities matching column = value and the total count.
func (s *Service[T]) ListBy(ctx context.Context, column string, value any, params pagination.Params) ([]T, int, error) {
	items, total, err := s.repo.ListBy(ctx, column, value, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", s.resource, err)
	}
	return items, total, nil
}

// Get retrieves a single entity by id.
func (s *Service[T]) Get(ctx context.Context, id int64) (*T, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.resource, err)
	}
	return e, nil
}

// Update loads the entity, applies the given patch function, and persists the
// result. Only fields the patch touches change; apply returns an error to
// reject invalid input before anything is written.
func (s *Service[T]) Update(ctx context.Context, id int64, apply func(e *T) error) (*T, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s for update: %w", s.resource, err)
	}

	if err := apply(e); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update %s: %w", s.resource, err)
	}

	s.logger.InfoContext(ctx, s.resource+" updated",
		slog.Int64("id", id),
	)

	return e, nil
}

// Delete removes the entity by id.
func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.resource, err)
	}

	s.logger.InfoContext(ctx, s.resource+" deleted",
		slog.Int64("id", id),
	)

	return nil
}
