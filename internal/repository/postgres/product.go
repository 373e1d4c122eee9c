package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (shop_office_id, category_id, name, slug, description, status, base_price, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	ctx, end := database.TraceQuery(ctx, "CreateProduct", query)
	err := r.db.QueryRow(ctx, query,
		product.ShopOfficeID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.Status,
		product.BasePrice,
		product.Currency,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", product.Slug)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, shop_office_id, category_id, name, slug, description, status, base_price, currency, created_at, updated_at
		FROM products
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProduct", query)
	product, err := r.scanProduct(r.db.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return product, nil
}

// GetBySlug retrieves a product by its slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `
		SELECT id, shop_office_id, category_id, name, slug, description, status, base_price, currency, created_at, updated_at
		FROM products
		WHERE slug = $1`

	ctx, end := database.TraceQuery(ctx, "GetProductBySlug", query)
	product, err := r.scanProduct(r.db.QueryRow(ctx, query, slug))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundMsg(fmt.Sprintf("product with slug %q not found", slug))
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return product, nil
}

// List retrieves products matching the filter, ordered by ascending id, with
// the total count computed in the same query.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argPos     = 1
	)

	addCondition := func(condition string, value any) {
		conditions = append(conditions, fmt.Sprintf(condition, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.CategoryID != nil {
		addCondition("category_id = $%d", *filter.CategoryID)
	}
	if filter.ShopOfficeID != nil {
		addCondition("shop_office_id = $%d", *filter.ShopOfficeID)
	}
	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.Search != nil && *filter.Search != "" {
		addCondition("name ILIKE $%d", "%"+*filter.Search+"%")
	}
	if filter.MinPrice != nil {
		addCondition("base_price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addCondition("base_price <= $%d", *filter.MaxPrice)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, shop_office_id, category_id, name, slug, description, status, base_price, currency, created_at, updated_at,
			count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)

	limit := filter.PerPage
	offset := (filter.Page - 1) * filter.PerPage
	args = append(args, limit, offset)

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.ShopOfficeID,
			&p.CategoryID,
			&p.Name,
			&p.Slug,
			&p.Description,
			&p.Status,
			&p.BasePrice,
			&p.Currency,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}
	end(nil)

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// Update updates all mutable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, slug = $3, description = $4, status = $5, base_price = $6, currency = $7, updated_at = $8
		WHERE id = $9`

	product.UpdatedAt = time.Now().UTC()

	ctx, end := database.TraceQuery(ctx, "UpdateProduct", query)
	ct, err := r.db.Exec(ctx, query,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.Status,
		product.BasePrice,
		product.Currency,
		product.UpdatedAt,
		product.ID,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", product.Slug)
		}
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", product.ID)
	}

	return nil
}

// DeleteTx removes the product, its variants, and the variants' media rows in
// one transaction. The collected storage keys are handed to deleteObjects
// before commit, so a storage failure rolls the whole delete back and the rows
// stay consistent with the objects.
func (r *ProductRepository) DeleteTx(ctx context.Context, id int64, deleteObjects func(ctx context.Context, keys []string) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete product tx: %w", err)
	}
	defer tx.Rollback(ctx)

	variantIDs, err := r.variantIDs(ctx, tx, id)
	if err != nil {
		return err
	}

	keys, err := r.mediaKeysForVariants(ctx, tx, variantIDs)
	if err != nil {
		return err
	}

	if len(variantIDs) > 0 {
		deleteMedia := `DELETE FROM media_files WHERE owner_type = $1 AND owner_id = ANY($2)`
		if _, err := tx.Exec(ctx, deleteMedia, domain.MediaOwnerProductVariant, variantIDs); err != nil {
			return fmt.Errorf("delete product media: %w", err)
		}

		deleteVariants := `DELETE FROM product_variants WHERE product_id = $1`
		if _, err := tx.Exec(ctx, deleteVariants, id); err != nil {
			return fmt.Errorf("delete product variants: %w", err)
		}
	}

	deleteProduct := `DELETE FROM products WHERE id = $1`
	ct, err := tx.Exec(ctx, deleteProduct, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	if len(keys) > 0 && deleteObjects != nil {
		if err := deleteObjects(ctx, keys); err != nil {
			return fmt.Errorf("delete product objects: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete product tx: %w", err)
	}

	return nil
}

func (r *ProductRepository) variantIDs(ctx context.Context, tx pgx.Tx, productID int64) ([]int64, error) {
	query := `SELECT id FROM product_variants WHERE product_id = $1`

	rows, err := tx.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variant ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan variant id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant ids: %w", err)
	}

	return ids, nil
}

func (r *ProductRepository) mediaKeysForVariants(ctx context.Context, tx pgx.Tx, variantIDs []int64) ([]string, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}

	query := `SELECT storage_key FROM media_files WHERE owner_type = $1 AND owner_id = ANY($2)`

	rows, err := tx.Query(ctx, query, domain.MediaOwnerProductVariant, variantIDs)
	if err != nil {
		return nil, fmt.Errorf("list media keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan media key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media keys: %w", err)
	}

	return keys, nil
}

// CreateVariant inserts a new product variant.
func (r *ProductRepository) CreateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	query := `
		INSERT INTO product_variants (product_id, color_id, size, sku, price, stock, weight_grams, length_cm, width_cm, height_cm, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	now := time.Now().UTC()
	variant.CreatedAt = now
	variant.UpdatedAt = now

	ctx, end := database.TraceQuery(ctx, "CreateProductVariant", query)
	err := r.db.QueryRow(ctx, query,
		variant.ProductID,
		variant.ColorID,
		variant.Size,
		variant.SKU,
		variant.Price,
		variant.Stock,
		variant.WeightGrams,
		variant.LengthCm,
		variant.WidthCm,
		variant.HeightCm,
		variant.CreatedAt,
		variant.UpdatedAt,
	).Scan(&variant.ID)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product variant", "sku", variant.SKU)
		}
		return fmt.Errorf("insert product variant: %w", err)
	}

	return nil
}

// GetVariant retrieves a product variant by its ID.
func (r *ProductRepository) GetVariant(ctx context.Context, id int64) (*domain.ProductVariant, error) {
	query := `
		SELECT id, product_id, color_id, size, sku, price, stock, weight_grams, length_cm, width_cm, height_cm, created_at, updated_at
		FROM product_variants
		WHERE id = $1`

	var v domain.ProductVariant
	ctx, end := database.TraceQuery(ctx, "GetProductVariant", query)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.ProductID,
		&v.ColorID,
		&v.Size,
		&v.SKU,
		&v.Price,
		&v.Stock,
		&v.WeightGrams,
		&v.LengthCm,
		&v.WidthCm,
		&v.HeightCm,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product variant", id)
		}
		return nil, fmt.Errorf("scan product variant: %w", err)
	}

	return &v, nil
}

// GetVariants retrieves all variants of a product ordered by ascending id.
func (r *ProductRepository) GetVariants(ctx context.Context, productID int64) ([]domain.ProductVariant, error) {
	query := `
		SELECT id, product_id, color_id, size, sku, price, stock, weight_grams, length_cm, width_cm, height_cm, created_at, updated_at
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id ASC`

	ctx, end := database.TraceQuery(ctx, "GetProductVariants", query)
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list product variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.ProductVariant
	for rows.Next() {
		var v domain.ProductVariant
		if err := rows.Scan(
			&v.ID,
			&v.ProductID,
			&v.ColorID,
			&v.Size,
			&v.SKU,
			&v.Price,
			&v.Stock,
			&v.WeightGrams,
			&v.LengthCm,
			&v.WidthCm,
			&v.HeightCm,
			&v.CreatedAt,
			&v.UpdatedAt,
		); err != nil {
			end(err)
			return nil, fmt.Errorf("scan product variant row: %w", err)
		}
		variants = append(variants, v)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate product variant rows: %w", err)
	}
	end(nil)

	if variants == nil {
		variants = []domain.ProductVariant{}
	}

	return variants, nil
}

// UpdateVariant updates all mutable fields of an existing variant.
func (r *ProductRepository) UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	query := `
		UPDATE product_variants
		SET color_id = $1, size = $2, sku = $3, price = $4, stock = $5, weight_grams = $6, length_cm = $7, width_cm = $8, height_cm = $9, updated_at = $10
		WHERE id = $11`

	variant.UpdatedAt = time.Now().UTC()

	ctx, end := database.TraceQuery(ctx, "UpdateProductVariant", query)
	ct, err := r.db.Exec(ctx, query,
		variant.ColorID,
		variant.Size,
		variant.SKU,
		variant.Price,
		variant.Stock,
		variant.WeightGrams,
		variant.LengthCm,
		variant.WidthCm,
		variant.HeightCm,
		variant.UpdatedAt,
		variant.ID,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product variant", "sku", variant.SKU)
		}
		return fmt.Errorf("update product variant: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product variant", variant.ID)
	}

	return nil
}

// DeleteVariant removes a product variant by its ID.
func (r *ProductRepository) DeleteVariant(ctx context.Context, id int64) error {
	query := `DELETE FROM product_variants WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteProductVariant", query)
	ct, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete product variant: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product variant", id)
	}

	return nil
}

func (r *ProductRepository) scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.ShopOfficeID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Status,
		&p.BasePrice,
		&p.Currency,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
