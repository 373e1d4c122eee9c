package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

var returnColumns = []string{"id", "order_id", "user_id", "reason", "status", "created_at", "updated_at"}

func sampleReturn() domain.ReturnRequest {
	return domain.ReturnRequest{
		ID:        6,
		OrderID:   1,
		UserID:    7,
		Reason:    "wrong size",
		Status:    domain.ReturnStatusRequested,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestReturnRequestRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReturnRequestRepository(mock)

	req := sampleReturn()
	req.ID = 0

	mock.ExpectQuery("INSERT INTO return_requests").
		WithArgs(req.OrderID, req.UserID, req.Reason, req.Status, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(6)))

	err := repo.Create(context.Background(), &req)
	require.NoError(t, err)
	assert.Equal(t, int64(6), req.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRequestRepository_Create_DuplicateOrder(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReturnRequestRepository(mock)

	req := sampleReturn()
	req.ID = 0

	mock.ExpectQuery("INSERT INTO return_requests").
		WithArgs(req.OrderID, req.UserID, req.Reason, req.Status, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &req)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRequestRepository_List_ForUser(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReturnRequestRepository(mock)

	req := sampleReturn()
	columns := append(append([]string{}, returnColumns...), "total_count")

	mock.ExpectQuery("SELECT .+ FROM return_requests").
		WithArgs(int64(7), 10, 0).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			req.ID, req.OrderID, req.UserID, req.Reason, req.Status, req.CreatedAt, req.UpdatedAt, 1,
		))

	requests, total, err := repo.List(context.Background(), int64Ptr(7), repository.Page{Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, requests, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRequestRepository_UpdateStatus_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReturnRequestRepository(mock)

	mock.ExpectExec("UPDATE return_requests").
		WithArgs(domain.ReturnStatusApproved, pgxmock.AnyArg(), int64(999)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), 999, domain.ReturnStatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
