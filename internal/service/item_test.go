package service

import (
	"context"
	"errors"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/wishlist/internal/client"
	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/repository"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
)

func sampleItem() *domain.Item {
	return &domain.Item{ID: 11, WishlistID: 5, ProductID: 1001, ProductName: "Desk lamp"}
}

func addToCartCount(t *testing.T, m *Metrics, outcome string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, m.addToCart.WithLabelValues(outcome).Write(&metric))
	return metric.GetCounter().GetValue()
}

// ---------------------------------------------------------------------------
// AddItem
// ---------------------------------------------------------------------------

func TestAddItem_Success(t *testing.T) {
	svc, d := newTestService(Options{})

	d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
	d.items.On("Add", mock.Anything, &domain.Item{WishlistID: 5, ProductID: 1001, ProductName: "Desk lamp"}).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Item).ID = 11 }).
		Return(nil)
	d.events.On("PublishItemAdded", mock.Anything, mock.Anything).Return(nil)

	item, err := svc.AddItem(context.Background(), 5, AddItemInput{ProductID: 1001, ProductName: "Desk lamp"})
	require.NoError(t, err)
	assert.Equal(t, sampleItem(), item)
	d.assertExpectations(t)
}

func TestAddItem_MissingWishlist(t *testing.T) {
	svc, d := newTestService(Options{})

	d.wishlists.On("GetByID", mock.Anything, int64(9)).Return(nil, apperrors.NotFound("Wishlist", "9"))

	_, err := svc.AddItem(context.Background(), 9, AddItemInput{ProductID: 1001, ProductName: "Desk lamp"})
	assert.True(t, apperrors.IsNotFound(err))
	d.items.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAddItem_Duplicate(t *testing.T) {
	svc, d := newTestService(Options{})

	d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
	d.items.On("Add", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("Wishlist item", "product_id", "1001"))

	_, err := svc.AddItem(context.Background(), 5, AddItemInput{ProductID: 1001, ProductName: "Desk lamp"})
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.Equal(t, 409, apperrors.HTTPStatus(err))
	d.events.AssertNotCalled(t, "PublishItemAdded", mock.Anything, mock.Anything)
}

func TestAddItem_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input AddItemInput
	}{
		{"missing product id", AddItemInput{ProductName: "Desk lamp"}},
		{"missing product name", AddItemInput{ProductID: 1001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newTestService(Options{})

			_, err := svc.AddItem(context.Background(), 5, tt.input)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
			d.wishlists.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

// ---------------------------------------------------------------------------
// QueryItems
// ---------------------------------------------------------------------------

func TestQueryItems_ScopesToPathWishlist(t *testing.T) {
	svc, d := newTestService(Options{})

	wid := int64(5)
	name := "Desk lamp"
	d.wishlists.On("GetByID", mock.Anything, wid).Return(sampleWishlist(), nil)
	d.items.On("Query", mock.Anything, repository.ItemFilter{WishlistID: &wid, ProductName: &name}).
		Return([]domain.Item{*sampleItem()}, nil)

	got, err := svc.QueryItems(context.Background(), wid, repository.ItemFilter{ProductName: &name})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	d.assertExpectations(t)
}

func TestQueryItems_ConflictingWishlistFilter(t *testing.T) {
	svc, d := newTestService(Options{})

	other := int64(6)
	_, err := svc.QueryItems(context.Background(), 5, repository.ItemFilter{WishlistID: &other})
	assert.True(t, apperrors.IsNotFound(err))
	d.items.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestQueryItems_MissingWishlist(t *testing.T) {
	svc, d := newTestService(Options{})

	d.wishlists.On("GetByID", mock.Anything, int64(9)).Return(nil, apperrors.NotFound("Wishlist", "9"))

	_, err := svc.QueryItems(context.Background(), 9, repository.ItemFilter{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestQueryItems_EmptyIsNotFound(t *testing.T) {
	svc, d := newTestService(Options{})

	d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
	d.items.On("Query", mock.Anything, mock.Anything).Return([]domain.Item{}, nil)

	_, err := svc.QueryItems(context.Background(), 5, repository.ItemFilter{})
	assert.True(t, apperrors.IsNotFound(err))
}

// ---------------------------------------------------------------------------
// RenameItem / DeleteItem
// ---------------------------------------------------------------------------

func TestRenameItem(t *testing.T) {
	svc, d := newTestService(Options{})

	renamed := sampleItem()
	renamed.ProductName = "Floor lamp"
	d.items.On("RenameProductName", mock.Anything, int64(5), int64(1001), "Floor lamp").Return(renamed, nil)

	got, err := svc.RenameItem(context.Background(), 5, 1001, "Floor lamp")
	require.NoError(t, err)
	assert.Equal(t, "Floor lamp", got.ProductName)
	d.assertExpectations(t)
}

func TestRenameItem_EmptyName(t *testing.T) {
	svc, d := newTestService(Options{})

	_, err := svc.RenameItem(context.Background(), 5, 1001, "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	d.items.AssertNotCalled(t, "RenameProductName", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteItem(t *testing.T) {
	svc, d := newTestService(Options{})

	d.items.On("Delete", mock.Anything, int64(5), int64(1001)).Return(nil)

	assert.NoError(t, svc.DeleteItem(context.Background(), 5, 1001))
	d.assertExpectations(t)
}

// ---------------------------------------------------------------------------
// AddItemToCart
// ---------------------------------------------------------------------------

func TestAddItemToCart_MovesItem(t *testing.T) {
	metrics := NewMetrics(nil)
	svc, d := newTestService(Options{Metrics: metrics})

	price := decimal.RequireFromString("19.99")
	d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
	d.items.On("GetByWishlistAndProduct", mock.Anything, int64(5), int64(1001)).Return(sampleItem(), nil)
	d.catalog.On("GetProductDetails", mock.Anything, int64(1001)).
		Return(&client.ProductDetails{ID: 1001, Name: "Desk lamp (new)", Price: price}, nil)
	d.cart.On("AddToCart", mock.Anything, client.CartLine{
		CustomerID: 42,
		ProductID:  1001,
		Quantity:   1,
		Price:      price,
		Name:       "Desk lamp (new)",
	}).Return(nil)
	d.items.On("Delete", mock.Anything, int64(5), int64(1001)).Return(nil)
	d.events.On("PublishItemMovedToCart", mock.Anything, sampleItem(), int64(42), price).Return(nil)

	require.NoError(t, svc.AddItemToCart(context.Background(), 5, 1001))
	d.assertExpectations(t)
	assert.Equal(t, 1.0, addToCartCount(t, metrics, outcomeMoved))
}

func TestAddItemToCart_FailuresKeepItem(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(d *testDeps)
		wantStatus int
		outcome    string
	}{
		{
			name: "wishlist missing",
			setup: func(d *testDeps) {
				d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(nil, apperrors.NotFound("Wishlist", "5"))
			},
			wantStatus: 404,
			outcome:    outcomeNotFound,
		},
		{
			name: "item not in wishlist",
			setup: func(d *testDeps) {
				d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
				d.items.On("GetByWishlistAndProduct", mock.Anything, int64(5), int64(1001)).
					Return(nil, apperrors.NotFoundf("Product with id '1001' was not found in Wishlist with id '5'"))
			},
			wantStatus: 404,
			outcome:    outcomeNotFound,
		},
		{
			name: "catalog 404",
			setup: func(d *testDeps) {
				d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
				d.items.On("GetByWishlistAndProduct", mock.Anything, int64(5), int64(1001)).Return(sampleItem(), nil)
				d.catalog.On("GetProductDetails", mock.Anything, int64(1001)).
					Return(nil, apperrors.NotFoundf("Product with id '1001' was not found in the catalog"))
			},
			wantStatus: 404,
			outcome:    outcomeNotFound,
		},
		{
			name: "catalog failure",
			setup: func(d *testDeps) {
				d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
				d.items.On("GetByWishlistAndProduct", mock.Anything, int64(5), int64(1001)).Return(sampleItem(), nil)
				d.catalog.On("GetProductDetails", mock.Anything, int64(1001)).
					Return(nil, apperrors.Upstream("unable to fetch name/price for product", errors.New("503")))
			},
			wantStatus: 500,
			outcome:    outcomeCatalogFailed,
		},
		{
			name: "cart failure",
			setup: func(d *testDeps) {
				d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
				d.items.On("GetByWishlistAndProduct", mock.Anything, int64(5), int64(1001)).Return(sampleItem(), nil)
				d.catalog.On("GetProductDetails", mock.Anything, int64(1001)).
					Return(&client.ProductDetails{ID: 1001, Name: "Desk lamp", Price: decimal.NewFromInt(20)}, nil)
				d.cart.On("AddToCart", mock.Anything, mock.Anything).
					Return(apperrors.Upstream("unable to add product to cart", errors.New("timeout")))
			},
			wantStatus: 500,
			outcome:    outcomeCartFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := NewMetrics(nil)
			svc, d := newTestService(Options{Metrics: metrics})
			tt.setup(d)

			err := svc.AddItemToCart(context.Background(), 5, 1001)
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, apperrors.HTTPStatus(err))
			d.items.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
			d.events.AssertNotCalled(t, "PublishItemMovedToCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			d.assertExpectations(t)
			assert.Equal(t, 1.0, addToCartCount(t, metrics, tt.outcome))
		})
	}
}

func TestAddItemToCart_DeleteFailure(t *testing.T) {
	metrics := NewMetrics(nil)
	svc, d := newTestService(Options{Metrics: metrics})

	d.wishlists.On("GetByID", mock.Anything, int64(5)).Return(sampleWishlist(), nil)
	d.items.On("GetByWishlistAndProduct", mock.Anything, int64(5), int64(1001)).Return(sampleItem(), nil)
	d.catalog.On("GetProductDetails", mock.Anything, int64(1001)).
		Return(&client.ProductDetails{ID: 1001, Name: "Desk lamp", Price: decimal.NewFromInt(20)}, nil)
	d.cart.On("AddToCart", mock.Anything, mock.Anything).Return(nil)
	d.items.On("Delete", mock.Anything, int64(5), int64(1001)).Return(assert.AnError)

	err := svc.AddItemToCart(context.Background(), 5, 1001)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1.0, addToCartCount(t, metrics, outcomeError))
}
