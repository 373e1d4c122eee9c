package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

type returnServiceMocks struct {
	returns *mockReturnRequestRepository
	orders  *mockOrderRepository
}

type mockReturnRequestRepository struct {
	mock.Mock
}

func (m *mockReturnRequestRepository) Create(ctx context.Context, req *domain.ReturnRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockReturnRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ReturnRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReturnRequest), args.Error(1)
}

func (m *mockReturnRequestRepository) List(ctx context.Context, userID *int64, page repository.Page) ([]domain.ReturnRequest, int, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.ReturnRequest), args.Int(1), args.Error(2)
}

func (m *mockReturnRequestRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func newTestReturnService(t *testing.T) (*ReturnRequestService, returnServiceMocks) {
	t.Helper()

	m := returnServiceMocks{
		returns: new(mockReturnRequestRepository),
		orders:  new(mockOrderRepository),
	}
	return NewReturnRequestService(m.returns, m.orders, newTestEvents(), newTestLogger()), m
}

func TestReturnRequestService_Create_Success(t *testing.T) {
	svc, m := newTestReturnService(t)

	order := &domain.Order{ID: 42, UserID: 7, Status: domain.OrderStatusDelivered}
	m.orders.On("GetByID", mock.Anything, int64(42)).Return(order, nil)
	m.returns.On("Create", mock.Anything, mock.AnythingOfType("*domain.ReturnRequest")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.ReturnRequest).ID = 6
		}).
		Return(nil)

	req, err := svc.Create(context.Background(), 7, 42, "wrong size")
	require.NoError(t, err)
	assert.Equal(t, int64(6), req.ID)
	assert.Equal(t, domain.ReturnStatusRequested, req.Status)
	assert.Equal(t, "wrong size", req.Reason)
}

func TestReturnRequestService_Create_NotDelivered(t *testing.T) {
	svc, m := newTestReturnService(t)

	order := &domain.Order{ID: 42, UserID: 7, Status: domain.OrderStatusShipping}
	m.orders.On("GetByID", mock.Anything, int64(42)).Return(order, nil)

	req, err := svc.Create(context.Background(), 7, 42, "wrong size")
	assert.Nil(t, req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	m.returns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReturnRequestService_Create_ForeignOrder(t *testing.T) {
	svc, m := newTestReturnService(t)

	order := &domain.Order{ID: 42, UserID: 99, Status: domain.OrderStatusDelivered}
	m.orders.On("GetByID", mock.Anything, int64(42)).Return(order, nil)

	req, err := svc.Create(context.Background(), 7, 42, "wrong size")
	assert.Nil(t, req)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReturnRequestService_Get_RestrictsToOwner(t *testing.T) {
	svc, m := newTestReturnService(t)

	m.returns.On("GetByID", mock.Anything, int64(6)).
		Return(&domain.ReturnRequest{ID: 6, OrderID: 42, UserID: 7}, nil)

	req, err := svc.Get(context.Background(), 6, int64Ptr(99))
	assert.Nil(t, req)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReturnRequestService_UpdateStatus_Approve(t *testing.T) {
	svc, m := newTestReturnService(t)

	m.returns.On("GetByID", mock.Anything, int64(6)).
		Return(&domain.ReturnRequest{ID: 6, Status: domain.ReturnStatusRequested}, nil)
	m.returns.On("UpdateStatus", mock.Anything, int64(6), domain.ReturnStatusApproved).Return(nil)

	req, err := svc.UpdateStatus(context.Background(), 6, domain.ReturnStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnStatusApproved, req.Status)
}

func TestReturnRequestService_UpdateStatus_IllegalTransition(t *testing.T) {
	svc, m := newTestReturnService(t)

	m.returns.On("GetByID", mock.Anything, int64(6)).
		Return(&domain.ReturnRequest{ID: 6, Status: domain.ReturnStatusRejected}, nil)

	req, err := svc.UpdateStatus(context.Background(), 6, domain.ReturnStatusRefunded)
	assert.Nil(t, req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	m.returns.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
