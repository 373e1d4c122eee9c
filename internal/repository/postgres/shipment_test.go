package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

var shipmentColumns = []string{
	"id", "order_id", "shop_office_id", "carrier_code", "tracking_code", "status",
	"fee", "currency", "weight_grams", "length_cm", "width_cm", "height_cm",
	"item_count", "created_at", "updated_at",
}

func sampleShipment() domain.Shipment {
	return domain.Shipment{
		ID:           4,
		OrderID:      1,
		ShopOfficeID: 10,
		CarrierCode:  "ghn",
		TrackingCode: "GHN123",
		Status:       domain.ShipmentStatusCreated,
		Fee:          30000,
		Currency:     "VND",
		WeightGrams:  600,
		LengthCm:     30,
		WidthCm:      20,
		HeightCm:     8,
		ItemCount:    2,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func shipmentRow(s domain.Shipment) []any {
	return []any{
		s.ID, s.OrderID, s.ShopOfficeID, s.CarrierCode, s.TrackingCode, s.Status,
		s.Fee, s.Currency, s.WeightGrams, s.LengthCm, s.WidthCm, s.HeightCm,
		s.ItemCount, s.CreatedAt, s.UpdatedAt,
	}
}

func TestShipmentRepository_CreateAll_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShipmentRepository(mock)

	first := sampleShipment()
	first.ID = 0
	second := sampleShipment()
	second.ID = 0
	second.ShopOfficeID = 20
	second.TrackingCode = "GHN124"

	mock.ExpectBegin()
	for i, s := range []domain.Shipment{first, second} {
		mock.ExpectQuery("INSERT INTO shipments").
			WithArgs(
				s.OrderID, s.ShopOfficeID, s.CarrierCode, s.TrackingCode, s.Status,
				s.Fee, s.Currency, s.WeightGrams, s.LengthCm, s.WidthCm, s.HeightCm,
				s.ItemCount, pgxmock.AnyArg(), pgxmock.AnyArg(),
			).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4 + i)))
	}
	mock.ExpectCommit()

	batch := []domain.Shipment{first, second}
	err := repo.CreateAll(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, int64(4), batch[0].ID)
	assert.Equal(t, int64(5), batch[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_CreateAll_RollsBackOnFailure(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShipmentRepository(mock)

	first := sampleShipment()
	first.ID = 0
	second := sampleShipment()
	second.ID = 0
	second.TrackingCode = "GHN124"

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO shipments").
		WithArgs(
			first.OrderID, first.ShopOfficeID, first.CarrierCode, first.TrackingCode, first.Status,
			first.Fee, first.Currency, first.WeightGrams, first.LengthCm, first.WidthCm, first.HeightCm,
			first.ItemCount, pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery("INSERT INTO shipments").
		WithArgs(
			second.OrderID, second.ShopOfficeID, second.CarrierCode, second.TrackingCode, second.Status,
			second.Fee, second.Currency, second.WeightGrams, second.LengthCm, second.WidthCm, second.HeightCm,
			second.ItemCount, pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.CreateAll(context.Background(), []domain.Shipment{first, second})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_CreateAll_EmptyBatch(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShipmentRepository(mock)

	// No batch, no transaction.
	err := repo.CreateAll(context.Background(), nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShipmentRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM shipments").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	s, err := repo.GetByID(context.Background(), 999)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_ListByOrder_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShipmentRepository(mock)

	s := sampleShipment()
	mock.ExpectQuery("SELECT .+ FROM shipments").
		WithArgs(s.OrderID).
		WillReturnRows(pgxmock.NewRows(shipmentColumns).AddRow(shipmentRow(s)...))

	shipments, err := repo.ListByOrder(context.Background(), s.OrderID)
	require.NoError(t, err)
	assert.Len(t, shipments, 1)
	assert.Equal(t, s.TrackingCode, shipments[0].TrackingCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_List_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShipmentRepository(mock)

	s := sampleShipment()
	columns := append(append([]string{}, shipmentColumns...), "total_count")
	row := append(shipmentRow(s), 1)

	mock.ExpectQuery("SELECT .+ FROM shipments").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(row...))

	shipments, total, err := repo.List(context.Background(), repository.Page{Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, shipments, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_UpdateStatus_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShipmentRepository(mock)

	mock.ExpectExec("UPDATE shipments").
		WithArgs(domain.ShipmentStatusDelivering, pgxmock.AnyArg(), int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), 4, domain.ShipmentStatusDelivering)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
