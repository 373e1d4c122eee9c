package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// MediaRepository implements repository.MediaRepository using PostgreSQL.
type MediaRepository struct {
	db database.DBTX
}

// NewMediaRepository creates a new PostgreSQL media repository.
func NewMediaRepository(db database.DBTX) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a new media file row.
func (r *MediaRepository) Create(ctx context.Context, media *domain.MediaFile) error {
	query := `
		INSERT INTO media_files (kind, owner_type, owner_id, storage_key, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	now := time.Now().UTC()
	media.CreatedAt = now
	media.UpdatedAt = now

	ctx, end := database.TraceQuery(ctx, "CreateMedia", query)
	err := r.db.QueryRow(ctx, query,
		media.Kind,
		media.OwnerType,
		media.OwnerID,
		media.StorageKey,
		media.SortOrder,
		media.CreatedAt,
		media.UpdatedAt,
	).Scan(&media.ID)
	end(err)
	if err != nil {
		return fmt.Errorf("insert media file: %w", err)
	}

	return nil
}

// GetByID retrieves a media file by ID.
func (r *MediaRepository) GetByID(ctx context.Context, id int64) (*domain.MediaFile, error) {
	query := `
		SELECT id, kind, owner_type, owner_id, storage_key, sort_order, created_at, updated_at
		FROM media_files
		WHERE id = $1`

	var m domain.MediaFile
	ctx, end := database.TraceQuery(ctx, "GetMedia", query)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Kind,
		&m.OwnerType,
		&m.OwnerID,
		&m.StorageKey,
		&m.SortOrder,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("media file", id)
		}
		return nil, fmt.Errorf("scan media file: %w", err)
	}

	return &m, nil
}

// ListByOwner retrieves the owner's media files ordered by sort_order, then id.
func (r *MediaRepository) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]domain.MediaFile, error) {
	query := `
		SELECT id, kind, owner_type, owner_id, storage_key, sort_order, created_at, updated_at
		FROM media_files
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY sort_order ASC, id ASC`

	ctx, end := database.TraceQuery(ctx, "ListMediaByOwner", query)
	rows, err := r.db.Query(ctx, query, ownerType, ownerID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list media files: %w", err)
	}
	defer rows.Close()

	var files []domain.MediaFile
	for rows.Next() {
		var m domain.MediaFile
		if err := rows.Scan(
			&m.ID,
			&m.Kind,
			&m.OwnerType,
			&m.OwnerID,
			&m.StorageKey,
			&m.SortOrder,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			end(err)
			return nil, fmt.Errorf("scan media file row: %w", err)
		}
		files = append(files, m)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate media file rows: %w", err)
	}
	end(nil)

	if files == nil {
		files = []domain.MediaFile{}
	}

	return files, nil
}

// PrimaryImagesForProducts returns, per product id, the first image of the
// product's variants ordered by sort_order. Products with no images are
// absent from the map.
func (r *MediaRepository) PrimaryImagesForProducts(ctx context.Context, productIDs []int64) (map[int64]domain.MediaFile, error) {
	if len(productIDs) == 0 {
		return map[int64]domain.MediaFile{}, nil
	}

	query := `
		SELECT DISTINCT ON (pv.product_id)
			pv.product_id, m.id, m.kind, m.owner_type, m.owner_id, m.storage_key, m.sort_order, m.created_at, m.updated_at
		FROM media_files m
		JOIN product_variants pv ON pv.id = m.owner_id
		WHERE m.owner_type = $1 AND m.kind = $2 AND pv.product_id = ANY($3)
		ORDER BY pv.product_id, m.sort_order ASC, m.id ASC`

	ctx, end := database.TraceQuery(ctx, "PrimaryImagesForProducts", query)
	rows, err := r.db.Query(ctx, query, domain.MediaOwnerProductVariant, domain.MediaKindImage, productIDs)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list primary images: %w", err)
	}
	defer rows.Close()

	images := make(map[int64]domain.MediaFile)
	for rows.Next() {
		var (
			productID int64
			m         domain.MediaFile
		)
		if err := rows.Scan(
			&productID,
			&m.ID,
			&m.Kind,
			&m.OwnerType,
			&m.OwnerID,
			&m.StorageKey,
			&m.SortOrder,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			end(err)
			return nil, fmt.Errorf("scan primary image row: %w", err)
		}
		images[productID] = m
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate primary image rows: %w", err)
	}
	end(nil)

	return images, nil
}

// Delete removes a media file row by ID.
func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM media_files WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteMedia", query)
	ct, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete media file: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("media file", id)
	}

	return nil
}
