package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// AddressService handles a user's delivery addresses.
type AddressService struct {
	addresses repository.AddressRepository
	logger    *slog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(addresses repository.AddressRepository, logger *slog.Logger) *AddressService {
	return &AddressService{addresses: addresses, logger: logger}
}

// CreateAddressInput holds the data for creating an address.
type CreateAddressInput struct {
	Recipient    string
	Phone        string
	ProvinceCode int
	ProvinceName string
	DistrictCode int
	DistrictName string
	WardCode     string
	WardName     string
	Street       string
	IsDefault    bool
}

// Create adds an address for the user. Marking it default clears the default
// flag on the user's other addresses first.
func (s *AddressService) Create(ctx context.Context, userID int64, input CreateAddressInput) (*domain.Address, error) {
	if input.IsDefault {
		if err := s.addresses.ClearDefault(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear default address: %w", err)
		}
	}

	address := &domain.Address{
		UserID:       userID,
		Recipient:    input.Recipient,
		Phone:        input.Phone,
		ProvinceCode: input.ProvinceCode,
		ProvinceName: input.ProvinceName,
		DistrictCode: input.DistrictCode,
		DistrictName: input.DistrictName,
		WardCode:     input.WardCode,
		WardName:     input.WardName,
		Street:       input.Street,
		IsDefault:    input.IsDefault,
	}

	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	s.logger.InfoContext(ctx, "address created",
		slog.Int64("address_id", address.ID),
		slog.Int64("user_id", userID),
	)

	return address, nil
}

// Get retrieves one of the user's addresses, refusing other users' rows.
func (s *AddressService) Get(ctx context.Context, userID, id int64) (*domain.Address, error) {
	address, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}

	if address.UserID != userID {
		return nil, apperrors.NotFound("address", id)
	}

	return address, nil
}

// List retrieves one page of the user's addresses.
func (s *AddressService) List(ctx context.Context, userID int64, params pagination.Params) ([]domain.Address, int, error) {
	addresses, total, err := s.addresses.ListByUser(ctx, userID, repository.Page{Limit: params.PerPage, Offset: params.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, total, nil
}

// UpdateAddressInput holds the partial-update fields for an address. Nil
// fields are left unchanged.
type UpdateAddressInput struct {
	Recipient    *string
	Phone        *string
	ProvinceCode *int
	ProvinceName *string
	DistrictCode *int
	DistrictName *string
	WardCode     *string
	WardName     *string
	Street       *string
	IsDefault    *bool
}

// Update applies a partial update to one of the user's addresses.
func (s *AddressService) Update(ctx context.Context, userID, id int64, input UpdateAddressInput) (*domain.Address, error) {
	address, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.IsDefault != nil && *input.IsDefault && !address.IsDefault {
		if err := s.addresses.ClearDefault(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear default address: %w", err)
		}
	}

	if input.Recipient != nil {
		address.Recipient = *input.Recipient
	}
	if input.Phone != nil {
		address.Phone = *input.Phone
	}
	if input.ProvinceCode != nil {
		address.ProvinceCode = *input.ProvinceCode
	}
	if input.ProvinceName != nil {
		address.ProvinceName = *input.ProvinceName
	}
	if input.DistrictCode != nil {
		address.DistrictCode = *input.DistrictCode
	}
	if input.DistrictName != nil {
		address.DistrictName = *input.DistrictName
	}
	if input.WardCode != nil {
		address.WardCode = *input.WardCode
	}
	if input.WardName != nil {
		address.WardName = *input.WardName
	}
	if input.Street != nil {
		address.Street = *input.Street
	}
	if input.IsDefault != nil {
		address.IsDefault = *input.IsDefault
	}

	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}

	s.logger.InfoContext(ctx, "address updated",
		slog.Int64("address_id", id),
		slog.Int64("user_id", userID),
	)

	return address, nil
}

// Delete removes one of the user's addresses.
func (s *AddressService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.addresses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	s.logger.InfoContext(ctx, "address deleted",
		slog.Int64("address_id", id),
		slog.Int64("user_id", userID),
	)

	return nil
}
