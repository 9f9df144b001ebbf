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

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	db database.DBTX
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(db database.DBTX) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Create inserts a new wishlist and stores the generated id on w.
func (r *WishlistRepository) Create(ctx context.Context, w *domain.Wishlist) (err error) {
	query := `
		INSERT INTO wishlists (name, customer_id)
		VALUES ($1, $2)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "wishlist.Create", query)
	defer func() { end(err) }()

	if err := r.db.QueryRow(ctx, query, w.Name, w.CustomerID).Scan(&w.ID); err != nil {
		return fmt.Errorf("insert wishlist: %w", err)
	}

	return nil
}

// GetByID retrieves a wishlist by its ID.
func (r *WishlistRepository) GetByID(ctx context.Context, id int64) (_ *domain.Wishlist, err error) {
	query := `
		SELECT id, name, customer_id
		FROM wishlists
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "wishlist.GetByID", query)
	defer func() { end(err) }()

	var w domain.Wishlist
	if err := r.db.QueryRow(ctx, query, id).Scan(&w.ID, &w.Name, &w.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wishlistNotFound(id)
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	return &w, nil
}

// Query returns the wishlists matching every filter that is set, ordered by
// id. An empty filter returns all wishlists.
func (r *WishlistRepository) Query(ctx context.Context, filter repository.WishlistFilter) (_ []domain.Wishlist, err error) {
	var (
		whereClause string
		args        []any
	)
	if !filter.IsEmpty() {
		whereClause, args = wishlistWhere(filter)
	}

	query := fmt.Sprintf(`
		SELECT id, name, customer_id
		FROM wishlists
		%s
		ORDER BY id`, whereClause)

	ctx, end := database.TraceQuery(ctx, "wishlist.Query", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query wishlists: %w", err)
	}
	defer rows.Close()

	var wishlists []domain.Wishlist
	for rows.Next() {
		var w domain.Wishlist
		if err := rows.Scan(&w.ID, &w.Name, &w.CustomerID); err != nil {
			return nil, fmt.Errorf("scan wishlist: %w", err)
		}
		wishlists = append(wishlists, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	if wishlists == nil {
		wishlists = []domain.Wishlist{}
	}

	return wishlists, nil
}

// wishlistWhere renders the set fields of filter as a WHERE clause with
// positional arguments.
func wishlistWhere(filter repository.WishlistFilter) (string, []any) {
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

	if filter.Name != nil {
		conditions = append(conditions, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *filter.Name)
		argIndex++
	}

	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argIndex))
		args = append(args, *filter.CustomerID)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Rename sets a new name on a wishlist and returns the updated row.
func (r *WishlistRepository) Rename(ctx context.Context, id int64, name string) (_ *domain.Wishlist, err error) {
	query := `
		UPDATE wishlists
		SET name = $1
		WHERE id = $2
		RETURNING id, name, customer_id`

	ctx, end := database.TraceQuery(ctx, "wishlist.Rename", query)
	defer func() { end(err) }()

	var w domain.Wishlist
	if err := r.db.QueryRow(ctx, query, name, id).Scan(&w.ID, &w.Name, &w.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wishlistNotFound(id)
		}
		return nil, fmt.Errorf("rename wishlist: %w", err)
	}

	return &w, nil
}

// Delete removes a wishlist and its items in a single transaction.
func (r *WishlistRepository) Delete(ctx context.Context, id int64) (err error) {
	ctx, end := database.TraceQuery(ctx, "wishlist.Delete", "DELETE FROM wishlist_items, wishlists")
	defer func() { end(err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete wishlist tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM wishlist_items WHERE wishlist_id = $1`, id); err != nil {
		return fmt.Errorf("delete wishlist items: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM wishlists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete wishlist tx: %w", err)
	}

	return nil
}

// ResetAll truncates both tables and restarts their id sequences.
func (r *WishlistRepository) ResetAll(ctx context.Context) (err error) {
	query := `TRUNCATE wishlist_items, wishlists RESTART IDENTITY`

	ctx, end := database.TraceQuery(ctx, "wishlist.ResetAll", query)
	defer func() { end(err) }()

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("reset wishlists: %w", err)
	}

	return nil
}

func wishlistNotFound(id int64) *apperrors.AppError {
	return apperrors.NotFound("Wishlist", strconv.FormatInt(id, 10))
}
