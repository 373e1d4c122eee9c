package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

var mediaColumns = []string{
	"id", "kind", "owner_type", "owner_id", "storage_key", "sort_order", "created_at", "updated_at",
}

func sampleMedia() domain.MediaFile {
	return domain.MediaFile{
		ID:         20,
		Kind:       domain.MediaKindImage,
		OwnerType:  domain.MediaOwnerProductVariant,
		OwnerID:    5,
		StorageKey: "product_variant/5/a.jpg",
		SortOrder:  0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func mediaRow(m domain.MediaFile) []any {
	return []any{m.ID, m.Kind, m.OwnerType, m.OwnerID, m.StorageKey, m.SortOrder, m.CreatedAt, m.UpdatedAt}
}

func TestMediaRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewMediaRepository(mock)

	m := sampleMedia()
	m.ID = 0

	mock.ExpectQuery("INSERT INTO media_files").
		WithArgs(m.Kind, m.OwnerType, m.OwnerID, m.StorageKey, m.SortOrder, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(20)))

	err := repo.Create(context.Background(), &m)
	require.NoError(t, err)
	assert.Equal(t, int64(20), m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepository_ListByOwner_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewMediaRepository(mock)

	m := sampleMedia()
	mock.ExpectQuery("SELECT .+ FROM media_files").
		WithArgs(m.OwnerType, m.OwnerID).
		WillReturnRows(pgxmock.NewRows(mediaColumns).AddRow(mediaRow(m)...))

	files, err := repo.ListByOwner(context.Background(), m.OwnerType, m.OwnerID)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, m.StorageKey, files[0].StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepository_PrimaryImagesForProducts_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewMediaRepository(mock)

	m := sampleMedia()
	columns := append([]string{"product_id"}, mediaColumns...)
	row := append([]any{int64(1)}, mediaRow(m)...)

	mock.ExpectQuery("SELECT DISTINCT ON").
		WithArgs(domain.MediaOwnerProductVariant, domain.MediaKindImage, []int64{1, 2}).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(row...))

	images, err := repo.PrimaryImagesForProducts(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, images, 1)
	assert.Equal(t, m.StorageKey, images[1].StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepository_PrimaryImagesForProducts_NoIDs(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewMediaRepository(mock)

	images, err := repo.PrimaryImagesForProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewMediaRepository(mock)

	mock.ExpectExec("DELETE FROM media_files").
		WithArgs(int64(999)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
