package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

const cartCacheTTL = 5 * time.Minute

// CartService handles shopping carts with a Redis read-through cache keyed
// per user. Cache failures degrade to DB reads with a warning; they never
// fail the operation.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	cache    *redis.Client
	rewriter *media.Rewriter
	logger   *slog.Logger
}

// NewCartService creates a new cart service. A nil cache disables caching.
func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	cache *redis.Client,
	rewriter *media.Rewriter,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		cache:    cache,
		rewriter: rewriter,
		logger:   logger,
	}
}

// Get returns the user's cart with denormalized items, served from cache when
// fresh.
func (s *CartService) Get(ctx context.Context, userID int64) (*domain.CartDetail, error) {
	if detail := s.cacheGet(ctx, userID); detail != nil {
		return detail, nil
	}

	detail, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, userID, detail)

	return detail, nil
}

// AddItem adds a variant to the user's cart, merging quantity if already
// present. Stock is checked against the resulting quantity.
func (s *CartService) AddItem(ctx context.Context, userID, variantID int64, quantity int) (*domain.CartDetail, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}

	variant, err := s.products.GetVariant(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	item, err := s.carts.AddItem(ctx, cart.ID, variantID, quantity)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	if item.Quantity > variant.Stock {
		if err := s.carts.UpdateItemQuantity(ctx, cart.ID, item.ID, variant.Stock); err != nil {
			return nil, fmt.Errorf("clamp cart item quantity: %w", err)
		}
	}

	s.cacheInvalidate(ctx, userID)

	s.logger.InfoContext(ctx, "cart item added",
		slog.Int64("user_id", userID),
		slog.Int64("variant_id", variantID),
		slog.Int("quantity", quantity),
	)

	return s.Get(ctx, userID)
}

// UpdateItem sets an item's quantity. Zero removes the item.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartDetail, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	if quantity == 0 {
		err = s.carts.RemoveItem(ctx, cart.ID, itemID)
	} else {
		err = s.carts.UpdateItemQuantity(ctx, cart.ID, itemID, quantity)
	}
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	s.cacheInvalidate(ctx, userID)

	s.logger.InfoContext(ctx, "cart item updated",
		slog.Int64("user_id", userID),
		slog.Int64("item_id", itemID),
		slog.Int("quantity", quantity),
	)

	return s.Get(ctx, userID)
}

// RemoveItem removes an item from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}

	if err := s.carts.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	s.cacheInvalidate(ctx, userID)

	s.logger.InfoContext(ctx, "cart item removed",
		slog.Int64("user_id", userID),
		slog.Int64("item_id", itemID),
	)

	return nil
}

// Clear removes all items from the user's cart.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}

	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.cacheInvalidate(ctx, userID)

	s.logger.InfoContext(ctx, "cart cleared",
		slog.Int64("user_id", userID),
	)

	return nil
}

func (s *CartService) load(ctx context.Context, userID int64) (*domain.CartDetail, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	items, err := s.carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	for i := range items {
		items[i].ImageURL = s.rewriter.RewriteURL(ctx, items[i].ImageURL)
	}

	return &domain.CartDetail{Cart: *cart, Items: items}, nil
}

func cartCacheKey(userID int64) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (s *CartService) cacheGet(ctx context.Context, userID int64) *domain.CartDetail {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, cartCacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "cart cache read failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	var detail domain.CartDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		s.logger.WarnContext(ctx, "cart cache entry corrupt",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return &detail
}

func (s *CartService) cacheSet(ctx context.Context, userID int64, detail *domain.CartDetail) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(detail)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, cartCacheKey(userID), data, cartCacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "cart cache write failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) cacheInvalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, cartCacheKey(userID)).Err(); err != nil {
		s.logger.WarnContext(ctx, "cart cache invalidation failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
