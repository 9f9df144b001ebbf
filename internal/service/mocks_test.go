package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/utafrali/wishlist/internal/client"
	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/repository"
)

// --- Mock Wishlist Repository ---

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) Create(ctx context.Context, w *domain.Wishlist) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockWishlistRepository) GetByID(ctx context.Context, id int64) (*domain.Wishlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) Query(ctx context.Context, filter repository.WishlistFilter) ([]domain.Wishlist, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) Rename(ctx context.Context, id int64, name string) (*domain.Wishlist, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockWishlistRepository) ResetAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Mock Item Repository ---

type mockItemRepository struct {
	mock.Mock
}

func (m *mockItemRepository) Add(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepository) GetByWishlistAndProduct(ctx context.Context, wishlistID, productID int64) (*domain.Item, error) {
	args := m.Called(ctx, wishlistID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepository) Query(ctx context.Context, filter repository.ItemFilter) ([]domain.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockItemRepository) RenameProductName(ctx context.Context, wishlistID, productID int64, name string) (*domain.Item, error) {
	args := m.Called(ctx, wishlistID, productID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepository) Delete(ctx context.Context, wishlistID, productID int64) error {
	args := m.Called(ctx, wishlistID, productID)
	return args.Error(0)
}

func (m *mockItemRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockItemRepository) CountByWishlist(ctx context.Context, wishlistID int64) (int64, error) {
	args := m.Called(ctx, wishlistID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock downstream clients ---

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetProductDetails(ctx context.Context, productID int64) (*client.ProductDetails, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ProductDetails), args.Error(1)
}

type mockCart struct {
	mock.Mock
}

func (m *mockCart) AddToCart(ctx context.Context, line client.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

// --- Mock event publisher ---

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishWishlistCreated(ctx context.Context, w *domain.Wishlist) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockEvents) PublishWishlistDeleted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEvents) PublishItemAdded(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockEvents) PublishItemMovedToCart(ctx context.Context, item *domain.Item, customerID int64, price decimal.Decimal) error {
	args := m.Called(ctx, item, customerID, price)
	return args.Error(0)
}

// --- Test Helpers ---

type testDeps struct {
	wishlists *mockWishlistRepository
	items     *mockItemRepository
	catalog   *mockCatalog
	cart      *mockCart
	events    *mockEvents
}

func (d *testDeps) assertExpectations(t mock.TestingT) {
	d.wishlists.AssertExpectations(t)
	d.items.AssertExpectations(t)
	d.catalog.AssertExpectations(t)
	d.cart.AssertExpectations(t)
	d.events.AssertExpectations(t)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(opts Options) (*WishlistService, *testDeps) {
	d := &testDeps{
		wishlists: new(mockWishlistRepository),
		items:     new(mockItemRepository),
		catalog:   new(mockCatalog),
		cart:      new(mockCart),
		events:    new(mockEvents),
	}
	svc := NewWishlistService(d.wishlists, d.items, d.catalog, d.cart, d.events, newTestLogger(), opts)
	return svc, d
}
