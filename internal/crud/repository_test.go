package crud

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// color is a minimal flat entity used to exercise the generic engine.
type color struct {
	ID        int64
	Name      string
	HexCode   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func colorMapper() Mapper[color] {
	return Mapper[color]{
		Table:    "colors",
		Resource: "color",
		Columns:  []string{"name", "hex_code"},
		Values:   func(e *color) []any { return []any{e.Name, e.HexCode} },
		Fields: func(e *color) []any {
			return []any{&e.ID, &e.Name, &e.HexCode, &e.CreatedAt, &e.UpdatedAt}
		},
		ID:    func(e *color) int64 { return e.ID },
		SetID: func(e *color, id int64) { e.ID = id },
		SetTimestamps: func(e *color, createdAt, updatedAt time.Time) {
			e.CreatedAt = createdAt
			e.UpdatedAt = updatedAt
		},
	}
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var colorColumns = []string{"id", "name", "hex_code", "created_at", "updated_at"}

func TestRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	e := color{Name: "Navy", HexCode: "#001f3f"}

	mock.ExpectQuery("INSERT INTO colors").
		WithArgs(e.Name, e.HexCode, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	err := repo.Create(context.Background(), &e)
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	e := color{Name: "Navy", HexCode: "#001f3f"}

	mock.ExpectQuery("INSERT INTO colors").
		WithArgs(e.Name, e.HexCode, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &e)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(colorColumns).AddRow(int64(3), "Navy", "#001f3f", now, now))

	e, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Navy", e.Name)
	assert.Equal(t, "#001f3f", e.HexCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	e, err := repo.GetByID(context.Background(), 999)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	columns := append(append([]string{}, colorColumns...), "total_count")
	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(2, 2).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(3), "Navy", "#001f3f", now, now, 5).
			AddRow(int64(4), "Sand", "#c2b280", now, now, 5))

	items, total, err := repo.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 5, total)
	assert.Equal(t, int64(3), items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	columns := append(append([]string{}, colorColumns...), "total_count")
	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(columns))

	items, total, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListBy_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	columns := append(append([]string{}, colorColumns...), "total_count")
	mock.ExpectQuery("SELECT .+ FROM colors WHERE name").
		WithArgs("Navy", 10, 0).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(3), "Navy", "#001f3f", now, now, 1))

	items, total, err := repo.ListBy(context.Background(), "name", "Navy", 10, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListBy_UnknownColumn(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	// Anything outside the mapper's columns never reaches the database.
	items, total, err := repo.ListBy(context.Background(), "name; DROP TABLE colors", "Navy", 10, 0)
	assert.Nil(t, items)
	assert.Zero(t, total)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	e := color{ID: 3, Name: "Midnight", HexCode: "#191970"}

	mock.ExpectExec("UPDATE colors").
		WithArgs(e.Name, e.HexCode, pgxmock.AnyArg(), e.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), &e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	e := color{ID: 999, Name: "Midnight", HexCode: "#191970"}

	mock.ExpectExec("UPDATE colors").
		WithArgs(e.Name, e.HexCode, pgxmock.AnyArg(), e.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &e)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRepository(mock, colorMapper())

	mock.ExpectExec("DELETE FROM colors").
		WithArgs(int64(999)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
