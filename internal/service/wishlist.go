package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/event"
	"github.com/utafrali/wishlist/internal/repository"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
)

// CreateWishlistInput holds the parameters for creating a wishlist.
type CreateWishlistInput struct {
	Name       string
	CustomerID int64
}

// CreateWishlist validates input and persists a new wishlist.
func (s *WishlistService) CreateWishlist(ctx context.Context, input CreateWishlistInput) (*domain.Wishlist, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("Invalid request: missing name")
	}
	if input.CustomerID <= 0 {
		return nil, apperrors.InvalidInput("Invalid request: customer_id must be a positive integer")
	}

	w := &domain.Wishlist{
		Name:       input.Name,
		CustomerID: input.CustomerID,
	}
	if err := s.wishlists.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist created",
		slog.Int64("wishlist_id", w.ID),
		slog.Int64("customer_id", w.CustomerID),
	)

	if err := s.events.PublishWishlistCreated(ctx, w); err != nil {
		s.logPublishError(ctx, event.TypeWishlistCreated, err)
	}

	return w, nil
}

// GetWishlist returns a wishlist by id.
func (s *WishlistService) GetWishlist(ctx context.Context, id int64) (*domain.Wishlist, error) {
	return s.wishlists.GetByID(ctx, id)
}

// QueryWishlists returns the wishlists matching filter. An empty result is
// reported as NotFound.
func (s *WishlistService) QueryWishlists(ctx context.Context, filter repository.WishlistFilter) ([]domain.Wishlist, error) {
	wishlists, err := s.wishlists.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query wishlists: %w", err)
	}
	if len(wishlists) == 0 {
		return nil, apperrors.NotFoundf("Wishlist was not found")
	}
	return wishlists, nil
}

// RenameWishlist changes the name of an existing wishlist.
func (s *WishlistService) RenameWishlist(ctx context.Context, id int64, name string) (*domain.Wishlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.InvalidInput("Invalid request: missing name")
	}

	w, err := s.wishlists.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "wishlist renamed", slog.Int64("wishlist_id", id))
	return w, nil
}

// DeleteWishlist removes a wishlist and all of its items. Deleting a
// wishlist that does not exist succeeds without doing anything.
func (s *WishlistService) DeleteWishlist(ctx context.Context, id int64) error {
	if _, err := s.wishlists.GetByID(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	if err := s.wishlists.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist deleted", slog.Int64("wishlist_id", id))

	if err := s.events.PublishWishlistDeleted(ctx, id); err != nil {
		s.logPublishError(ctx, event.TypeWishlistDeleted, err)
	}

	return nil
}

// ResetAll removes every wishlist and item. It fails with Forbidden unless
// the reset is enabled.
func (s *WishlistService) ResetAll(ctx context.Context) error {
	if !s.resetEnabled {
		return apperrors.Forbidden("reset is disabled")
	}

	if err := s.wishlists.ResetAll(ctx); err != nil {
		return fmt.Errorf("reset wishlists: %w", err)
	}

	s.logger.WarnContext(ctx, "all wishlists removed")
	return nil
}
