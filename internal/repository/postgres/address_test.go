package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

var addressColumns = []string{
	"id", "user_id", "recipient", "phone", "province_code", "province_name",
	"district_code", "district_name", "ward_code", "ward_name", "street",
	"is_default", "created_at", "updated_at",
}

func sampleAddressRow() domain.Address {
	return domain.Address{
		ID:           2,
		UserID:       7,
		Recipient:    "Nguyen Van A",
		Phone:        "0900000001",
		ProvinceCode: 201,
		ProvinceName: "Ha Noi",
		DistrictCode: 1482,
		DistrictName: "Dong Da",
		WardCode:     "11006",
		WardName:     "Lang Ha",
		Street:       "12 Lang Ha",
		IsDefault:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func addressRow(a domain.Address) []any {
	return []any{
		a.ID, a.UserID, a.Recipient, a.Phone, a.ProvinceCode, a.ProvinceName,
		a.DistrictCode, a.DistrictName, a.WardCode, a.WardName, a.Street,
		a.IsDefault, a.CreatedAt, a.UpdatedAt,
	}
}

func TestAddressRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAddressRepository(mock)

	a := sampleAddressRow()
	a.ID = 0

	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs(
			a.UserID, a.Recipient, a.Phone, a.ProvinceCode, a.ProvinceName,
			a.DistrictCode, a.DistrictName, a.WardCode, a.WardName, a.Street,
			a.IsDefault, pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))

	err := repo.Create(context.Background(), &a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_ListByUser_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAddressRepository(mock)

	a := sampleAddressRow()
	columns := append(append([]string{}, addressColumns...), "total_count")
	row := append(addressRow(a), 1)

	mock.ExpectQuery("SELECT .+ FROM addresses").
		WithArgs(a.UserID, 10, 0).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(row...))

	addresses, total, err := repo.ListByUser(context.Background(), a.UserID, repository.Page{Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, addresses, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.Recipient, addresses[0].Recipient)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAddressRepository(mock)

	a := sampleAddressRow()
	mock.ExpectExec("UPDATE addresses").
		WithArgs(
			a.Recipient, a.Phone, a.ProvinceCode, a.ProvinceName,
			a.DistrictCode, a.DistrictName, a.WardCode, a.WardName, a.Street,
			a.IsDefault, pgxmock.AnyArg(), a.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &a)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_ClearDefault_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAddressRepository(mock)

	mock.ExpectExec("UPDATE addresses SET is_default").
		WithArgs(pgxmock.AnyArg(), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ClearDefault(context.Background(), 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAddressRepository(mock)

	mock.ExpectExec("DELETE FROM addresses").
		WithArgs(int64(999)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
