package http

import (
	"net/http"
	"strconv"

	"github.com/utafrali/wishlist/internal/repository"
	"github.com/utafrali/wishlist/internal/service"
	"github.com/utafrali/wishlist/pkg/httputil"
	"github.com/utafrali/wishlist/pkg/validator"
)

// --- Request DTOs ---

// CreateWishlistRequest is the body of POST /wishlists.
type CreateWishlistRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
}

// RenameWishlistRequest is the body of PUT /wishlists/{id}.
type RenameWishlistRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// --- Handlers ---

// CreateWishlist handles POST /wishlists
func (h *WishlistHandler) CreateWishlist(w http.ResponseWriter, r *http.Request) {
	var req CreateWishlistRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	wishlist, err := h.service.CreateWishlist(r.Context(), service.CreateWishlistInput{
		Name:       req.Name,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", absoluteURL(r, "/wishlists/"+strconv.FormatInt(wishlist.ID, 10)))
	httputil.WriteJSON(w, http.StatusCreated, wishlist)
}

// QueryWishlists handles GET /wishlists?id=&name=&customer_id=
func (h *WishlistHandler) QueryWishlists(w http.ResponseWriter, r *http.Request) {
	var (
		filter repository.WishlistFilter
		err    error
	)
	if filter.ID, err = queryInt64(r, "id"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if filter.CustomerID, err = queryInt64(r, "customer_id"); err != nil {
		h.writeError(w, r, err)
		return
	}
	filter.Name = queryString(r, "name")

	wishlists, err := h.service.QueryWishlists(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishlists)
}

// GetWishlist handles GET /wishlists/{id}
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	wishlist, err := h.service.GetWishlist(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishlist)
}

// RenameWishlist handles PUT /wishlists/{id}
func (h *WishlistHandler) RenameWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req RenameWishlistRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	wishlist, err := h.service.RenameWishlist(r.Context(), id, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishlist)
}

// DeleteWishlist handles DELETE /wishlists/{id}
func (h *WishlistHandler) DeleteWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.DeleteWishlist(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetWishlists handles DELETE /wishlists/reset
func (h *WishlistHandler) ResetWishlists(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetAll(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
