package crud

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

func newTestService(t *testing.T) (*Service[color], pgxmock.PgxPoolIface) {
	t.Helper()
	mock := newMock(t)
	repo := NewRepository(mock, colorMapper())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, "color", logger), mock
}

func TestService_CreateGetRoundTrip(t *testing.T) {
	svc, mock := newTestService(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO colors").
		WithArgs("Navy", "#001f3f", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(colorColumns).AddRow(int64(3), "Navy", "#001f3f", now, now))

	created, err := svc.Create(context.Background(), &color{Name: "Navy", HexCode: "#001f3f"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_List_PassesPageWindow(t *testing.T) {
	svc, mock := newTestService(t)
	defer mock.Close()

	columns := append(append([]string{}, colorColumns...), "total_count")
	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(20, 40). // per_page 20, page 3
		WillReturnRows(pgxmock.NewRows(columns).AddRow(int64(41), "Navy", "#001f3f", now, now, 41))

	items, total, err := svc.List(context.Background(), pagination.Params{Page: 3, PerPage: 20, Offset: 40})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 41, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_AppliesPatch(t *testing.T) {
	svc, mock := newTestService(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(colorColumns).AddRow(int64(3), "Navy", "#001f3f", now, now))
	mock.ExpectExec("UPDATE colors").
		WithArgs("Midnight", "#001f3f", pgxmock.AnyArg(), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := svc.Update(context.Background(), 3, func(e *color) error {
		e.Name = "Midnight"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Midnight", updated.Name)
	assert.Equal(t, "#001f3f", updated.HexCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_PatchRejects(t *testing.T) {
	svc, mock := newTestService(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(colorColumns).AddRow(int64(3), "Navy", "#001f3f", now, now))

	// No update statement is expected: the patch rejects before any write.
	updated, err := svc.Update(context.Background(), 3, func(e *color) error {
		return apperrors.InvalidInput("bad hex code")
	})
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Get_NotFound(t *testing.T) {
	svc, mock := newTestService(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM colors").
		WithArgs(int64(999)).
		WillReturnError(apperrors.NotFound("color", 999))

	got, err := svc.Get(context.Background(), 999)
	assert.Nil(t, got)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
