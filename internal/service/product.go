package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/event"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/storage"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/slug"
)

// ProductService handles catalog products and their variants.
type ProductService struct {
	products  repository.ProductRepository
	mediaRepo repository.MediaRepository
	storage   storage.Storage
	rewriter  *media.Rewriter
	events    *event.Producer
	logger    *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	mediaRepo repository.MediaRepository,
	st storage.Storage,
	rewriter *media.Rewriter,
	events *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:  products,
		mediaRepo: mediaRepo,
		storage:   st,
		rewriter:  rewriter,
		events:    events,
		logger:    logger,
	}
}

// CreateProductInput holds the data for creating a product.
type CreateProductInput struct {
	ShopOfficeID int64
	CategoryID   *int64
	Name         string
	Description  string
	Status       string
	BasePrice    int64
	Currency     string
}

// Create inserts a new product with a slug generated from the name.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	status := input.Status
	if status == "" {
		status = domain.ProductStatusDraft
	}
	if !domain.IsValidProductStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid product status %q", status))
	}

	product := &domain.Product{
		ShopOfficeID: input.ShopOfficeID,
		CategoryID:   input.CategoryID,
		Name:         input.Name,
		Slug:         slug.Generate(input.Name),
		Description:  input.Description,
		Status:       status,
		BasePrice:    input.BasePrice,
		Currency:     input.Currency,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// Get retrieves a product with its variants and media, URLs rewritten.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return s.detail(ctx, product)
}

// GetBySlug retrieves a product by slug with its variants and media.
func (s *ProductService) GetBySlug(ctx context.Context, productSlug string) (*domain.ProductDetail, error) {
	product, err := s.products.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return s.detail(ctx, product)
}

func (s *ProductService) detail(ctx context.Context, product *domain.Product) (*domain.ProductDetail, error) {
	variants, err := s.products.GetVariants(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("get product variants: %w", err)
	}

	var files []domain.MediaFile
	for _, v := range variants {
		vf, err := s.mediaRepo.ListByOwner(ctx, domain.MediaOwnerProductVariant, v.ID)
		if err != nil {
			return nil, fmt.Errorf("list product media: %w", err)
		}
		files = append(files, vf...)
	}

	s.rewriter.Rewrite(ctx, files)
	if files == nil {
		files = []domain.MediaFile{}
	}

	return &domain.ProductDetail{
		Product:  *product,
		Variants: variants,
		Media:    files,
	}, nil
}

// List retrieves products matching the filter, each with its primary image.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductListItem, int, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	images, err := s.mediaRepo.PrimaryImagesForProducts(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load primary images: %w", err)
	}

	items := make([]domain.ProductListItem, len(products))
	for i, p := range products {
		items[i] = domain.ProductListItem{Product: p}
		if img, ok := images[p.ID]; ok {
			rewritten := []domain.MediaFile{img}
			s.rewriter.Rewrite(ctx, rewritten)
			items[i].PrimaryImage = &rewritten[0]
		}
	}

	return items, total, nil
}

// UpdateProductInput holds the partial-update fields for a product. Nil
// fields are left unchanged. Changing the name regenerates the slug.
type UpdateProductInput struct {
	CategoryID  *int64
	Name        *string
	Description *string
	Status      *string
	BasePrice   *int64
	Currency    *string
}

// Update applies a partial update to a product.
func (s *ProductService) Update(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = slug.Generate(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Status != nil {
		if !domain.IsValidProductStatus(*input.Status) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid product status %q", *input.Status))
		}
		product.Status = *input.Status
	}
	if input.BasePrice != nil {
		product.BasePrice = *input.BasePrice
	}
	if input.Currency != nil {
		product.Currency = *input.Currency
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.Int64("product_id", id),
	)

	return product, nil
}

// Delete removes a product with its variants, media rows, and storage
// objects in one transaction. A failing storage delete rolls everything back;
// the inverse gap, objects already deleted when a later step aborts, is
// logged with the affected keys.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	var deletedKeys []string

	err := s.products.DeleteTx(ctx, id, func(ctx context.Context, keys []string) error {
		if err := s.storage.Delete(ctx, keys); err != nil {
			return err
		}
		deletedKeys = keys
		return nil
	})
	if err != nil {
		if len(deletedKeys) > 0 {
			s.logger.ErrorContext(ctx, "product delete aborted after storage objects were removed",
				slog.Int64("product_id", id),
				slog.Any("storage_keys", deletedKeys),
			)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.events.ProductDeleted(ctx, id)

	s.logger.InfoContext(ctx, "product deleted",
		slog.Int64("product_id", id),
	)

	return nil
}

// CreateVariantInput holds the data for creating a product variant.
type CreateVariantInput struct {
	ColorID     *int64
	Size        string
	SKU         string
	Price       int64
	Stock       int
	WeightGrams int
	LengthCm    int
	WidthCm     int
	HeightCm    int
}

// CreateVariant adds a variant to a product.
func (s *ProductService) CreateVariant(ctx context.Context, productID int64, input CreateVariantInput) (*domain.ProductVariant, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	variant := &domain.ProductVariant{
		ProductID:   productID,
		ColorID:     input.ColorID,
		Size:        input.Size,
		SKU:         input.SKU,
		Price:       input.Price,
		Stock:       input.Stock,
		WeightGrams: input.WeightGrams,
		LengthCm:    input.LengthCm,
		WidthCm:     input.WidthCm,
		HeightCm:    input.HeightCm,
	}

	if err := s.products.CreateVariant(ctx, variant); err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}

	s.logger.InfoContext(ctx, "product variant created",
		slog.Int64("variant_id", variant.ID),
		slog.Int64("product_id", productID),
	)

	return variant, nil
}

// UpdateVariantInput holds the partial-update fields for a variant. Nil
// fields are left unchanged.
type UpdateVariantInput struct {
	ColorID     *int64
	Size        *string
	SKU         *string
	Price       *int64
	Stock       *int
	WeightGrams *int
	LengthCm    *int
	WidthCm     *int
	HeightCm    *int
}

// UpdateVariant applies a partial update to a product variant.
func (s *ProductService) UpdateVariant(ctx context.Context, id int64, input UpdateVariantInput) (*domain.ProductVariant, error) {
	variant, err := s.products.GetVariant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}

	if input.ColorID != nil {
		variant.ColorID = input.ColorID
	}
	if input.Size != nil {
		variant.Size = *input.Size
	}
	if input.SKU != nil {
		variant.SKU = *input.SKU
	}
	if input.Price != nil {
		variant.Price = *input.Price
	}
	if input.Stock != nil {
		variant.Stock = *input.Stock
	}
	if input.WeightGrams != nil {
		variant.WeightGrams = *input.WeightGrams
	}
	if input.LengthCm != nil {
		variant.LengthCm = *input.LengthCm
	}
	if input.WidthCm != nil {
		variant.WidthCm = *input.WidthCm
	}
	if input.HeightCm != nil {
		variant.HeightCm = *input.HeightCm
	}

	if err := s.products.UpdateVariant(ctx, variant); err != nil {
		return nil, fmt.Errorf("update variant: %w", err)
	}

	s.logger.InfoContext(ctx, "product variant updated",
		slog.Int64("variant_id", id),
	)

	return variant, nil
}

// DeleteVariant removes a product variant.
func (s *ProductService) DeleteVariant(ctx context.Context, id int64) error {
	if err := s.products.DeleteVariant(ctx, id); err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}

	s.logger.InfoContext(ctx, "product variant deleted",
		slog.Int64("variant_id", id),
	)

	return nil
}
