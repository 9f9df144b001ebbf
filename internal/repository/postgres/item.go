package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/repository"
	"github.com/utafrali/wishlist/pkg/database"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
)

// ItemRepository implements repository.ItemRepository using PostgreSQL.
type ItemRepository struct {
	db database.DBTX
}

// NewItemRepository creates a new PostgreSQL-backed wishlist item repository.
func NewItemRepository(db database.DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

// Add inserts a product into a wishlist and stores the generated id on item.
// A product can appear only once per wishlist.
func (r *ItemRepository) Add(ctx context.Context, item *domain.Item) (err error) {
	query := `
		INSERT INTO wishlist_items (wishlist_id, product_id, product_name)
		VALUES ($1, $2, $3)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "item.Add", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, item.WishlistID, item.ProductID, item.ProductName).Scan(&item.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperrors.AlreadyExists("Wishlist item", "product_id", strconv.FormatInt(item.ProductID, 10))
		case isForeignKeyViolation(err):
			return wishlistNotFound(item.WishlistID)
		}
		return fmt.Errorf("insert wishlist item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by its surrogate id.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (_ *domain.Item, err error) {
	query := `
		SELECT id, wishlist_id, product_id, product_name
		FROM wishlist_items
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "item.GetByID", query)
	defer func() { end(err) }()

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Wishlist item", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}

	return item, nil
}

// GetByWishlistAndProduct retrieves the item for productID in wishlistID.
func (r *ItemRepository) GetByWishlistAndProduct(ctx context.Context, wishlistID, productID int64) (_ *domain.Item, err error) {
	query := `
		SELECT id, wishlist_id, product_id, product_name
		FROM wishlist_items
		WHERE wishlist_id = $1 AND product_id = $2`

	ctx, end := database.TraceQuery(ctx, "item.GetByWishlistAndProduct", query)
	defer func() { end(err) }()

	item, err := scanItem(r.db.QueryRow(ctx, query, wishlistID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, itemNotFound(wishlistID, productID)
		}
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}

	return item, nil
}

// Query returns the items matching every filter that is set, ordered by id.
func (r *ItemRepository) Query(ctx context.Context, filter repository.ItemFilter) (_ []domain.Item, err error) {
	var (
		whereClause string
		args        []any
	)
	if !filter.IsEmpty() {
		whereClause, args = itemWhere(filter)
	}

	query := fmt.Sprintf(`
		SELECT id, wishlist_id, product_id, product_name
		FROM wishlist_items
		%s
		ORDER BY id`, whereClause)

	ctx, end := database.TraceQuery(ctx, "item.Query", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query wishlist items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist item rows: %w", err)
	}

	if items == nil {
		items = []domain.Item{}
	}

	return items, nil
}

// itemWhere renders the set fields of filter as a WHERE clause with
// positional arguments.
func itemWhere(filter repository.ItemFilter) (string, []any) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.ID != nil {
		conditions = append(conditions, fmt.Sprintf("id = $%d", argIndex))
		args = append(args, *filter.ID)
		argIndex++
	}

	if filter.WishlistID != nil {
		conditions = append(conditions, fmt.Sprintf("wishlist_id = $%d", argIndex))
		args = append(args, *filter.WishlistID)
		argIndex++
	}

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}

	if filter.ProductName != nil {
		conditions = append(conditions, fmt.Sprintf("product_name = $%d", argIndex))
		args = append(args, *filter.ProductName)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// RenameProductName updates the cached product name of an item.
func (r *ItemRepository) RenameProductName(ctx context.Context, wishlistID, productID int64, name string) (_ *domain.Item, err error) {
	query := `
		UPDATE wishlist_items
		SET product_name = $1
		WHERE wishlist_id = $2 AND product_id = $3
		RETURNING id, wishlist_id, product_id, product_name`

	ctx, end := database.TraceQuery(ctx, "item.RenameProductName", query)
	defer func() { end(err) }()

	item, err := scanItem(r.db.QueryRow(ctx, query, name, wishlistID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, itemNotFound(wishlistID, productID)
		}
		return nil, fmt.Errorf("rename wishlist item: %w", err)
	}

	return item, nil
}

// Delete removes the item for productID from wishlistID. It is a no-op when
// no such item exists.
func (r *ItemRepository) Delete(ctx context.Context, wishlistID, productID int64) (err error) {
	query := `DELETE FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2`

	ctx, end := database.TraceQuery(ctx, "item.Delete", query)
	defer func() { end(err) }()

	if _, err := r.db.Exec(ctx, query, wishlistID, productID); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}

	return nil
}

// CountAll returns the total number of items.
func (r *ItemRepository) CountAll(ctx context.Context) (_ int64, err error) {
	query := `SELECT COUNT(*) FROM wishlist_items`

	ctx, end := database.TraceQuery(ctx, "item.CountAll", query)
	defer func() { end(err) }()

	var n int64
	if err := r.db.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count wishlist items: %w", err)
	}

	return n, nil
}

// CountByWishlist returns the number of items in a wishlist.
func (r *ItemRepository) CountByWishlist(ctx context.Context, wishlistID int64) (_ int64, err error) {
	query := `SELECT COUNT(*) FROM wishlist_items WHERE wishlist_id = $1`

	ctx, end := database.TraceQuery(ctx, "item.CountByWishlist", query)
	defer func() { end(err) }()

	var n int64
	if err := r.db.QueryRow(ctx, query, wishlistID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count wishlist items: %w", err)
	}

	return n, nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	if err := row.Scan(&item.ID, &item.WishlistID, &item.ProductID, &item.ProductName); err != nil {
		return nil, err
	}
	return &item, nil
}

func itemNotFound(wishlistID, productID int64) *apperrors.AppError {
	return apperrors.NotFoundf("Product with id '%d' was not found in Wishlist with id '%d'", productID, wishlistID)
}
