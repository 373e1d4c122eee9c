package repository

import (
	"context"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
)

// Page holds the window for list queries. Offset is derived by the caller.
type Page struct {
	Limit  int
	Offset int
}

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	CategoryID   *int64
	ShopOfficeID *int64
	Status       *string
	Search       *string
	MinPrice     *int64
	MaxPrice     *int64
	Page         int
	PerPage      int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error

	// DeleteTx removes the product, its variants, and the variants' media rows
	// inside one transaction. deleteObjects is called before commit with the
	// storage keys of the collected media rows; if it returns an error the
	// whole transaction rolls back.
	DeleteTx(ctx context.Context, id int64, deleteObjects func(ctx context.Context, keys []string) error) error

	CreateVariant(ctx context.Context, variant *domain.ProductVariant) error
	GetVariant(ctx context.Context, id int64) (*domain.ProductVariant, error)
	GetVariants(ctx context.Context, productID int64) ([]domain.ProductVariant, error)
	UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error
	DeleteVariant(ctx context.Context, id int64) error
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page Page) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

// AddressRepository defines the interface for address persistence operations.
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	GetByID(ctx context.Context, id int64) (*domain.Address, error)
	ListByUser(ctx context.Context, userID int64, page Page) ([]domain.Address, int, error)
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id int64) error

	// ClearDefault unsets is_default on all of the user's addresses.
	ClearDefault(ctx context.Context, userID int64) error
}

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// GetOrCreate returns the user's cart, creating it if absent.
	GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error)

	// AddItem inserts a cart item or merges quantity on conflict.
	AddItem(ctx context.Context, cartID, variantID int64, quantity int) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
	ListItems(ctx context.Context, cartID int64) ([]domain.CartItemDetail, error)
	Clear(ctx context.Context, cartID int64) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// CreateWithItems inserts the order and its items in one transaction. If
	// userVoucherID is non-nil the matching user_voucher row is marked used
	// and the voucher quantity decremented in the same transaction.
	CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem, userVoucherID *int64) error

	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	List(ctx context.Context, userID *int64, page Page) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// VoucherRepository defines the interface for voucher persistence operations.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *domain.Voucher) error
	GetByID(ctx context.Context, id int64) (*domain.Voucher, error)
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	List(ctx context.Context, page Page) ([]domain.Voucher, int, error)
	Update(ctx context.Context, voucher *domain.Voucher) error
	Delete(ctx context.Context, id int64) error

	// SetVariantScope replaces the set of product variants the voucher is
	// restricted to. An empty set means the voucher applies to everything.
	SetVariantScope(ctx context.Context, voucherID int64, variantIDs []int64) error
	GetVariantScope(ctx context.Context, voucherID int64) ([]int64, error)

	Claim(ctx context.Context, userID, voucherID int64) (*domain.UserVoucher, error)
	GetUserVoucher(ctx context.Context, userID, voucherID int64) (*domain.UserVoucher, error)
	ListUserVouchers(ctx context.Context, userID int64, page Page) ([]domain.UserVoucher, int, error)
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID int64, page Page) ([]domain.Review, int, error)
	Delete(ctx context.Context, id int64) error
}

// ShipmentRepository defines the interface for shipment persistence operations.
type ShipmentRepository interface {
	CreateAll(ctx context.Context, shipments []domain.Shipment) error
	GetByID(ctx context.Context, id int64) (*domain.Shipment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]domain.Shipment, error)
	List(ctx context.Context, page Page) ([]domain.Shipment, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// MediaRepository defines the interface for media persistence operations.
type MediaRepository interface {
	Create(ctx context.Context, media *domain.MediaFile) error
	GetByID(ctx context.Context, id int64) (*domain.MediaFile, error)
	ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]domain.MediaFile, error)

	// PrimaryImagesForProducts returns, per product id, the first image of the
	// product's variants ordered by sort_order.
	PrimaryImagesForProducts(ctx context.Context, productIDs []int64) (map[int64]domain.MediaFile, error)

	Delete(ctx context.Context, id int64) error
}

// ReturnRequestRepository defines the interface for return-request persistence.
type ReturnRequestRepository interface {
	Create(ctx context.Context, req *domain.ReturnRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ReturnRequest, error)
	List(ctx context.Context, userID *int64, page Page) ([]domain.ReturnRequest, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
