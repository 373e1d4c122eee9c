package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/storage"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

func newTestCartService(t *testing.T) (*CartService, *mockCartRepository, *mockProductRepository) {
	t.Helper()

	carts := new(mockCartRepository)
	products := new(mockProductRepository)
	logger := newTestLogger()
	rewriter := media.NewRewriter(storage.NewMemoryStorage("http://cdn.test/media"), logger)

	return NewCartService(carts, products, nil, rewriter, logger), carts, products
}

func newCachedCartService(t *testing.T) (*CartService, *mockCartRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	carts := new(mockCartRepository)
	products := new(mockProductRepository)
	logger := newTestLogger()
	rewriter := media.NewRewriter(storage.NewMemoryStorage("http://cdn.test/media"), logger)

	return NewCartService(carts, products, client, rewriter, logger), carts, mr
}

func TestCartService_AddItem_Success(t *testing.T) {
	svc, carts, products := newTestCartService(t)

	products.On("GetVariant", mock.Anything, int64(5)).Return(linenVariant(), nil)
	carts.On("GetOrCreate", mock.Anything, int64(7)).Return(&domain.Cart{ID: 4, UserID: 7}, nil)
	carts.On("AddItem", mock.Anything, int64(4), int64(5), 2).
		Return(&domain.CartItem{ID: 11, CartID: 4, VariantID: 5, Quantity: 2}, nil)
	carts.On("ListItems", mock.Anything, int64(4)).Return(filledCartItems(), nil)

	detail, err := svc.AddItem(context.Background(), 7, 5, 2)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 2, detail.Items[0].Quantity)

	carts.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_AddItem_ClampsToStock(t *testing.T) {
	svc, carts, products := newTestCartService(t)

	products.On("GetVariant", mock.Anything, int64(5)).Return(linenVariant(), nil)
	carts.On("GetOrCreate", mock.Anything, int64(7)).Return(&domain.Cart{ID: 4, UserID: 7}, nil)

	// Merging pushes the line past the variant's stock of 8.
	carts.On("AddItem", mock.Anything, int64(4), int64(5), 3).
		Return(&domain.CartItem{ID: 11, CartID: 4, VariantID: 5, Quantity: 10}, nil)
	carts.On("UpdateItemQuantity", mock.Anything, int64(4), int64(11), 8).Return(nil)
	carts.On("ListItems", mock.Anything, int64(4)).Return(filledCartItems(), nil)

	_, err := svc.AddItem(context.Background(), 7, 5, 3)
	require.NoError(t, err)
	carts.AssertExpectations(t)
}

func TestCartService_AddItem_NonPositiveQuantity(t *testing.T) {
	svc, carts, products := newTestCartService(t)

	for _, quantity := range []int{0, -1} {
		detail, err := svc.AddItem(context.Background(), 7, 5, quantity)
		assert.Nil(t, detail)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}

	products.AssertNotCalled(t, "GetVariant", mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_AddItem_UnknownVariant(t *testing.T) {
	svc, _, products := newTestCartService(t)

	products.On("GetVariant", mock.Anything, int64(999)).
		Return(nil, apperrors.NotFound("product variant", 999))

	detail, err := svc.AddItem(context.Background(), 7, 999, 1)
	assert.Nil(t, detail)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartService_UpdateItem_ZeroRemoves(t *testing.T) {
	svc, carts, _ := newTestCartService(t)

	carts.On("GetOrCreate", mock.Anything, int64(7)).Return(&domain.Cart{ID: 4, UserID: 7}, nil)
	carts.On("RemoveItem", mock.Anything, int64(4), int64(11)).Return(nil)
	carts.On("ListItems", mock.Anything, int64(4)).Return([]domain.CartItemDetail{}, nil)

	detail, err := svc.UpdateItem(context.Background(), 7, 11, 0)
	require.NoError(t, err)
	assert.Empty(t, detail.Items)

	carts.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_UpdateItem_NegativeQuantity(t *testing.T) {
	svc, carts, _ := newTestCartService(t)

	detail, err := svc.UpdateItem(context.Background(), 7, 11, -1)
	assert.Nil(t, detail)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	carts.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
}

func TestCartService_Get_RewritesImageURL(t *testing.T) {
	svc, carts, _ := newTestCartService(t)

	items := filledCartItems()
	items[0].ImageURL = "product_variant/5/front.jpg"

	carts.On("GetOrCreate", mock.Anything, int64(7)).Return(&domain.Cart{ID: 4, UserID: 7}, nil)
	carts.On("ListItems", mock.Anything, int64(4)).Return(items, nil)

	detail, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "http://cdn.test/media/product_variant/5/front.jpg", detail.Items[0].ImageURL)
}

func TestCartService_Get_PopulatesCache(t *testing.T) {
	svc, carts, mr := newCachedCartService(t)

	carts.On("GetOrCreate", mock.Anything, int64(7)).Return(&domain.Cart{ID: 4, UserID: 7}, nil).Once()
	carts.On("ListItems", mock.Anything, int64(4)).Return(filledCartItems(), nil).Once()

	first, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, mr.Exists("cart:7"))

	// Second read is served from cache; the Once expectations above would
	// fail if the repository were hit again.
	second, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, second.Items, len(first.Items))
	assert.Equal(t, first.Items[0].VariantID, second.Items[0].VariantID)
	assert.Equal(t, first.Items[0].Quantity, second.Items[0].Quantity)
	carts.AssertExpectations(t)
}

func TestCartService_Get_ServesSeededCacheEntry(t *testing.T) {
	svc, carts, mr := newCachedCartService(t)

	cached := domain.CartDetail{
		Cart:  domain.Cart{ID: 4, UserID: 7},
		Items: filledCartItems(),
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:7", string(data)))

	detail, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), detail.Cart.ID)
	require.Len(t, detail.Items, 1)

	carts.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything)
}

func TestCartService_Clear_InvalidatesCache(t *testing.T) {
	svc, carts, mr := newCachedCartService(t)

	require.NoError(t, mr.Set("cart:7", `{"cart":{"id":4}}`))

	carts.On("GetOrCreate", mock.Anything, int64(7)).Return(&domain.Cart{ID: 4, UserID: 7}, nil)
	carts.On("Clear", mock.Anything, int64(4)).Return(nil)

	require.NoError(t, svc.Clear(context.Background(), 7))
	assert.False(t, mr.Exists("cart:7"))
}

func TestCartService_Get_CorruptCacheFallsBackToDB(t *testing.T) {
	svc, carts, mr := newCachedCartService(t)

	require.NoError(t, mr.Set("cart:7", "{not json"))

	carts.On("GetOrCreate", mock.Anything, int64(7)).Return(&domain.Cart{ID: 4, UserID: 7}, nil)
	carts.On("ListItems", mock.Anything, int64(4)).Return(filledCartItems(), nil)

	detail, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	carts.AssertExpectations(t)
}

func TestCartService_Clear_Success(t *testing.T) {
	svc, carts, _ := newTestCartService(t)

	carts.On("GetOrCreate", mock.Anything, int64(7)).Return(&domain.Cart{ID: 4, UserID: 7}, nil)
	carts.On("Clear", mock.Anything, int64(4)).Return(nil)

	err := svc.Clear(context.Background(), 7)
	require.NoError(t, err)
	carts.AssertExpectations(t)
}
