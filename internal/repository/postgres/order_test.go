package postgres

import (
	"context"
	"encoding/json"
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

var orderColumns = []string{
	"id", "user_id", "status", "subtotal", "discount", "shipping_fee", "total",
	"currency", "voucher_id", "shipping_address", "note", "created_at", "updated_at",
}

var orderColumnsWithCount = append(append([]string{}, orderColumns...), "total_count")

func sampleAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Recipient:    "Nguyen Van A",
		Phone:        "0900000001",
		ProvinceCode: 201,
		ProvinceName: "Ha Noi",
		DistrictCode: 1482,
		DistrictName: "Dong Da",
		WardCode:     "11006",
		WardName:     "Lang Ha",
		Street:       "12 Lang Ha",
	}
}

func sampleOrder() domain.Order {
	return domain.Order{
		ID:              1,
		UserID:          7,
		Status:          domain.OrderStatusPending,
		Subtotal:        500000,
		Discount:        50000,
		ShippingFee:     30000,
		Total:           480000,
		Currency:        "VND",
		ShippingAddress: sampleAddress(),
		Note:            "leave at the door",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func sampleOrderItem() domain.OrderItem {
	return domain.OrderItem{
		ID:           1,
		OrderID:      1,
		VariantID:    5,
		ProductName:  "Linen Shirt",
		Size:         "M",
		SKU:          "LS-M-BLUE",
		UnitPrice:    250000,
		Quantity:     2,
		WeightGrams:  300,
		LengthCm:     30,
		WidthCm:      20,
		HeightCm:     4,
		ShopOfficeID: 10,
		CreatedAt:    now,
	}
}

func orderRow(o domain.Order) []any {
	addressJSON, _ := json.Marshal(o.ShippingAddress)
	return []any{
		o.ID, o.UserID, o.Status, o.Subtotal, o.Discount, o.ShippingFee, o.Total,
		o.Currency, o.VoucherID, addressJSON, o.Note, o.CreatedAt, o.UpdatedAt,
	}
}

func expectOrderInsert(mock pgxmock.PgxPoolIface, o domain.Order, orderID int64) {
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(
			o.UserID, o.Status, o.Subtotal, o.Discount, o.ShippingFee, o.Total,
			o.Currency, o.VoucherID, pgxmock.AnyArg(), o.Note,
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(orderID))
}

func expectItemInsert(mock pgxmock.PgxPoolIface, item domain.OrderItem, orderID, itemID int64) {
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(
			orderID, item.VariantID, item.ProductName, item.Size, item.SKU,
			item.UnitPrice, item.Quantity, item.WeightGrams, item.LengthCm,
			item.WidthCm, item.HeightCm, item.ShopOfficeID, pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(itemID))
}

func TestOrderRepository_CreateWithItems_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()
	o.ID = 0
	item := sampleOrderItem()
	item.ID = 0
	items := []domain.OrderItem{item}

	mock.ExpectBegin()
	expectOrderInsert(mock, o, 42)
	expectItemInsert(mock, item, 42, 100)
	mock.ExpectCommit()

	err := repo.CreateWithItems(context.Background(), &o, items, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), o.ID)
	assert.Equal(t, int64(42), items[0].OrderID)
	assert.Equal(t, int64(100), items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithItems_VoucherRedeemed(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()
	o.ID = 0
	o.VoucherID = int64Ptr(3)
	item := sampleOrderItem()
	item.ID = 0
	userVoucherID := int64(9)

	mock.ExpectBegin()
	expectOrderInsert(mock, o, 42)
	expectItemInsert(mock, item, 42, 100)
	mock.ExpectExec("UPDATE user_vouchers").
		WithArgs(pgxmock.AnyArg(), userVoucherID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE vouchers").
		WithArgs(pgxmock.AnyArg(), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.CreateWithItems(context.Background(), &o, []domain.OrderItem{item}, &userVoucherID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithItems_VoucherAlreadyUsed(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()
	o.ID = 0
	o.VoucherID = int64Ptr(3)
	item := sampleOrderItem()
	item.ID = 0
	userVoucherID := int64(9)

	// used_at is already set, so the guarded update matches nothing and the
	// whole order rolls back.
	mock.ExpectBegin()
	expectOrderInsert(mock, o, 42)
	expectItemInsert(mock, item, 42, 100)
	mock.ExpectExec("UPDATE user_vouchers").
		WithArgs(pgxmock.AnyArg(), userVoucherID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.CreateWithItems(context.Background(), &o, []domain.OrderItem{item}, &userVoucherID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithItems_VoucherExhausted(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()
	o.ID = 0
	o.VoucherID = int64Ptr(3)
	item := sampleOrderItem()
	item.ID = 0
	userVoucherID := int64(9)

	mock.ExpectBegin()
	expectOrderInsert(mock, o, 42)
	expectItemInsert(mock, item, 42, 100)
	mock.ExpectExec("UPDATE user_vouchers").
		WithArgs(pgxmock.AnyArg(), userVoucherID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE vouchers").
		WithArgs(pgxmock.AnyArg(), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.CreateWithItems(context.Background(), &o, []domain.OrderItem{item}, &userVoucherID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithItems_ItemInsertError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()
	o.ID = 0
	item := sampleOrderItem()
	item.ID = 0

	mock.ExpectBegin()
	expectOrderInsert(mock, o, 42)
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(
			int64(42), item.VariantID, item.ProductName, item.Size, item.SKU,
			item.UnitPrice, item.Quantity, item.WeightGrams, item.LengthCm,
			item.WidthCm, item.HeightCm, item.ShopOfficeID, pgxmock.AnyArg(),
		).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.CreateWithItems(context.Background(), &o, []domain.OrderItem{item}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()
	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows(orderColumns).AddRow(orderRow(o)...))

	result, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, result.ID)
	assert.Equal(t, o.Total, result.Total)
	assert.Equal(t, o.ShippingAddress, result.ShippingAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), 999)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_ForUser(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()
	row := append(orderRow(o), 1)

	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(int64(7), 10, 0).
		WillReturnRows(pgxmock.NewRows(orderColumnsWithCount).AddRow(row...))

	orders, total, err := repo.List(context.Background(), int64Ptr(7), repository.Page{Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, o.UserID, orders[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_All(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()
	row := append(orderRow(o), 3)

	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(orderColumnsWithCount).AddRow(row...))

	orders, total, err := repo.List(context.Background(), nil, repository.Page{Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetItems_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	item := sampleOrderItem()
	columns := []string{
		"id", "order_id", "variant_id", "product_name", "size", "sku", "unit_price",
		"quantity", "weight_grams", "length_cm", "width_cm", "height_cm", "shop_office_id", "created_at",
	}

	mock.ExpectQuery("SELECT .+ FROM order_items").
		WithArgs(item.OrderID).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			item.ID, item.OrderID, item.VariantID, item.ProductName, item.Size, item.SKU,
			item.UnitPrice, item.Quantity, item.WeightGrams, item.LengthCm,
			item.WidthCm, item.HeightCm, item.ShopOfficeID, item.CreatedAt,
		))

	items, err := repo.GetItems(context.Background(), item.OrderID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, item.SKU, items[0].SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderStatusConfirmed, pgxmock.AnyArg(), int64(999)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), 999, domain.OrderStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
