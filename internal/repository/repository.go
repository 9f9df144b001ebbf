package repository

import (
	"context"

	"github.com/utafrali/wishlist/internal/domain"
)

// WishlistFilter narrows a wishlist query. Nil fields are ignored and the
// rest are combined with AND.
type WishlistFilter struct {
	ID         *int64
	Name       *string
	CustomerID *int64
}

// IsEmpty reports whether no filter is set.
func (f WishlistFilter) IsEmpty() bool {
	return f.ID == nil && f.Name == nil && f.CustomerID == nil
}

// ItemFilter narrows an item query. Nil fields are ignored and the rest
// are combined with AND.
type ItemFilter struct {
	ID          *int64
	WishlistID  *int64
	ProductID   *int64
	ProductName *string
}

// IsEmpty reports whether no filter is set.
func (f ItemFilter) IsEmpty() bool {
	return f.ID == nil && f.WishlistID == nil && f.ProductID == nil && f.ProductName == nil
}

// WishlistRepository defines the interface for wishlist persistence operations.
type WishlistRepository interface {
	// Create inserts a new wishlist and sets its ID.
	Create(ctx context.Context, w *domain.Wishlist) error

	// GetByID retrieves a wishlist by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Wishlist, error)

	// Query returns the wishlists matching every set filter, in creation order.
	Query(ctx context.Context, filter WishlistFilter) ([]domain.Wishlist, error)

	// Rename changes the name of a wishlist and returns the updated row.
	Rename(ctx context.Context, id int64, name string) (*domain.Wishlist, error)

	// Delete removes a wishlist together with its items. Deleting a missing
	// wishlist is not an error.
	Delete(ctx context.Context, id int64) error

	// ResetAll removes every wishlist and item and restarts the id sequences.
	ResetAll(ctx context.Context) error
}

// ItemRepository defines the interface for wishlist item persistence operations.
type ItemRepository interface {
	// Add inserts a new item and sets its ID.
	Add(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its surrogate identifier.
	GetByID(ctx context.Context, id int64) (*domain.Item, error)

	// GetByWishlistAndProduct retrieves the item for a product in a wishlist.
	GetByWishlistAndProduct(ctx context.Context, wishlistID, productID int64) (*domain.Item, error)

	// Query returns the items matching every set filter, in creation order.
	Query(ctx context.Context, filter ItemFilter) ([]domain.Item, error)

	// RenameProductName changes the cached product name of an item.
	RenameProductName(ctx context.Context, wishlistID, productID int64, name string) (*domain.Item, error)

	// Delete removes the item for a product in a wishlist. Deleting a
	// missing item is not an error.
	Delete(ctx context.Context, wishlistID, productID int64) error

	// CountAll returns the number of items across all wishlists.
	CountAll(ctx context.Context) (int64, error)

	// CountByWishlist returns the number of items in a wishlist.
	CountByWishlist(ctx context.Context, wishlistID int64) (int64, error)
}
