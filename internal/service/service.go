package service

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/utafrali/wishlist/internal/client"
	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/repository"
)

// ProductCatalog resolves the current name and price of a product.
type ProductCatalog interface {
	GetProductDetails(ctx context.Context, productID int64) (*client.ProductDetails, error)
}

// CartService places a product line into a customer's cart.
type CartService interface {
	AddToCart(ctx context.Context, line client.CartLine) error
}

// EventPublisher emits wishlist domain events. Publishing is best effort:
// errors are logged and never fail the operation that produced the event.
type EventPublisher interface {
	PublishWishlistCreated(ctx context.Context, w *domain.Wishlist) error
	PublishWishlistDeleted(ctx context.Context, id int64) error
	PublishItemAdded(ctx context.Context, item *domain.Item) error
	PublishItemMovedToCart(ctx context.Context, item *domain.Item, customerID int64, price decimal.Decimal) error
}

// Add-to-cart outcomes recorded by Metrics.
const (
	outcomeMoved         = "moved"
	outcomeNotFound      = "not_found"
	outcomeCatalogFailed = "catalog_failed"
	outcomeCartFailed    = "cart_failed"
	outcomeError         = "error"
)

// Metrics holds the business collectors of the wishlist service.
type Metrics struct {
	addToCart *prometheus.CounterVec
}

// NewMetrics creates the service collectors and registers them on reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		addToCart: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wishlist_add_to_cart_total",
			Help: "Add-to-cart attempts by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.addToCart)
	}
	return m
}

// Options tunes optional behavior of the service.
type Options struct {
	// ResetEnabled allows the destructive global reset.
	ResetEnabled bool

	// Metrics receives business counters. Nil uses unregistered collectors.
	Metrics *Metrics
}

// WishlistService implements the business logic for wishlists and their items.
type WishlistService struct {
	wishlists    repository.WishlistRepository
	items        repository.ItemRepository
	catalog      ProductCatalog
	cart         CartService
	events       EventPublisher
	metrics      *Metrics
	resetEnabled bool
	logger       *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(
	wishlists repository.WishlistRepository,
	items repository.ItemRepository,
	catalog ProductCatalog,
	cart CartService,
	events EventPublisher,
	logger *slog.Logger,
	opts Options,
) *WishlistService {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	return &WishlistService{
		wishlists:    wishlists,
		items:        items,
		catalog:      catalog,
		cart:         cart,
		events:       events,
		metrics:      opts.Metrics,
		resetEnabled: opts.ResetEnabled,
		logger:       logger,
	}
}

func (s *WishlistService) logPublishError(ctx context.Context, eventType string, err error) {
	s.logger.WarnContext(ctx, "failed to publish event",
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}
