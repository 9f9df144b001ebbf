package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/wishlist/internal/client"
	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/event"
	"github.com/utafrali/wishlist/internal/repository"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
	"github.com/utafrali/wishlist/pkg/tracing"
)

const tracerName = "github.com/utafrali/wishlist/internal/service"

// AddItemInput holds the parameters for adding a product to a wishlist.
type AddItemInput struct {
	ProductID   int64
	ProductName string
}

// AddItem adds a product to an existing wishlist.
func (s *WishlistService) AddItem(ctx context.Context, wishlistID int64, input AddItemInput) (*domain.Item, error) {
	if input.ProductID == 0 {
		return nil, apperrors.InvalidInput("Invalid request: missing product_id")
	}
	if strings.TrimSpace(input.ProductName) == "" {
		return nil, apperrors.InvalidInput("Invalid request: missing product_name")
	}

	if _, err := s.wishlists.GetByID(ctx, wishlistID); err != nil {
		return nil, err
	}

	item := &domain.Item{
		WishlistID:  wishlistID,
		ProductID:   input.ProductID,
		ProductName: input.ProductName,
	}
	if err := s.items.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}

	s.logger.InfoContext(ctx, "item added to wishlist",
		slog.Int64("wishlist_id", wishlistID),
		slog.Int64("product_id", item.ProductID),
	)

	if err := s.events.PublishItemAdded(ctx, item); err != nil {
		s.logPublishError(ctx, event.TypeItemAdded, err)
	}

	return item, nil
}

// GetItem returns the item for productID in wishlistID.
func (s *WishlistService) GetItem(ctx context.Context, wishlistID, productID int64) (*domain.Item, error) {
	return s.items.GetByWishlistAndProduct(ctx, wishlistID, productID)
}

// QueryItems returns the items of a wishlist matching filter. A filter on a
// different wishlist, a missing wishlist, and an empty result are all
// reported as NotFound.
func (s *WishlistService) QueryItems(ctx context.Context, wishlistID int64, filter repository.ItemFilter) ([]domain.Item, error) {
	if filter.WishlistID != nil && *filter.WishlistID != wishlistID {
		return nil, apperrors.NotFoundf("Wishlist items were not found")
	}
	filter.WishlistID = &wishlistID

	if _, err := s.wishlists.GetByID(ctx, wishlistID); err != nil {
		return nil, err
	}

	items, err := s.items.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query wishlist items: %w", err)
	}
	if len(items) == 0 {
		return nil, apperrors.NotFoundf("Wishlist items were not found")
	}
	return items, nil
}

// RenameItem changes the cached product name of an item.
func (s *WishlistService) RenameItem(ctx context.Context, wishlistID, productID int64, productName string) (*domain.Item, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, apperrors.InvalidInput("Invalid request: missing product_name")
	}

	item, err := s.items.RenameProductName(ctx, wishlistID, productID, productName)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "wishlist item renamed",
		slog.Int64("wishlist_id", wishlistID),
		slog.Int64("product_id", productID),
	)
	return item, nil
}

// DeleteItem removes a product from a wishlist. Deleting a missing item
// succeeds without doing anything.
func (s *WishlistService) DeleteItem(ctx context.Context, wishlistID, productID int64) error {
	if err := s.items.Delete(ctx, wishlistID, productID); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}

// AddItemToCart moves an item into the wishlist owner's cart. The product's
// current name and price are looked up in the catalog, the line is posted
// to the cart, and only then is the item removed from the wishlist. Any
// failure leaves the item in place.
func (s *WishlistService) AddItemToCart(ctx context.Context, wishlistID, productID int64) (err error) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "WishlistService.AddItemToCart",
		trace.WithAttributes(
			attribute.Int64("wishlist.id", wishlistID),
			attribute.Int64("product.id", productID),
		),
	)
	outcome := outcomeError
	defer func() {
		s.metrics.addToCart.WithLabelValues(outcome).Inc()
		span.SetAttributes(attribute.String("outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	w, err := s.wishlists.GetByID(ctx, wishlistID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			outcome = outcomeNotFound
		}
		return err
	}

	item, err := s.items.GetByWishlistAndProduct(ctx, wishlistID, productID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			outcome = outcomeNotFound
		}
		return err
	}

	product, err := s.catalog.GetProductDetails(ctx, productID)
	if err != nil {
		outcome = outcomeCatalogFailed
		if apperrors.IsNotFound(err) {
			outcome = outcomeNotFound
		}
		return err
	}

	err = s.cart.AddToCart(ctx, client.CartLine{
		CustomerID: w.CustomerID,
		ProductID:  productID,
		Quantity:   1,
		Price:      product.Price,
		Name:       product.Name,
	})
	if err != nil {
		outcome = outcomeCartFailed
		return err
	}

	if err := s.items.Delete(ctx, wishlistID, productID); err != nil {
		return fmt.Errorf("remove item moved to cart: %w", err)
	}
	outcome = outcomeMoved

	s.logger.InfoContext(ctx, "wishlist item moved to cart",
		slog.Int64("wishlist_id", wishlistID),
		slog.Int64("product_id", productID),
		slog.Int64("customer_id", w.CustomerID),
		slog.String("price", product.Price.String()),
	)

	if err := s.events.PublishItemMovedToCart(ctx, item, w.CustomerID, product.Price); err != nil {
		s.logPublishError(ctx, event.TypeItemMovedToCart, err)
	}

	return nil
}
