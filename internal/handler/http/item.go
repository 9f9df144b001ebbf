package http

import (
	"fmt"
	"net/http"

	"github.com/utafrali/wishlist/internal/repository"
	"github.com/utafrali/wishlist/internal/service"
	"github.com/utafrali/wishlist/pkg/httputil"
	"github.com/utafrali/wishlist/pkg/validator"
)

// --- Request DTOs ---

// AddItemRequest is the body of POST /wishlists/{id}/items.
type AddItemRequest struct {
	ProductID   int64  `json:"product_id" validate:"required"`
	ProductName string `json:"product_name" validate:"required,max=255"`
}

// RenameItemRequest is the body of PUT /wishlists/{id}/items/{product_id}.
type RenameItemRequest struct {
	ProductName string `json:"product_name" validate:"required,max=255"`
}

// --- Handlers ---

// AddItem handles POST /wishlists/{id}/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	wishlistID, err := pathInt64(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	item, err := h.service.AddItem(r.Context(), wishlistID, service.AddItemInput{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", absoluteURL(r, fmt.Sprintf("/wishlists/%d/items/%d", item.WishlistID, item.ProductID)))
	httputil.WriteJSON(w, http.StatusCreated, item)
}

// QueryItems handles GET /wishlists/{id}/items?id=&wishlist_id=&product_id=&product_name=
func (h *WishlistHandler) QueryItems(w http.ResponseWriter, r *http.Request) {
	wishlistID, err := pathInt64(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var filter repository.ItemFilter
	if filter.ID, err = queryInt64(r, "id"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if filter.WishlistID, err = queryInt64(r, "wishlist_id"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if filter.ProductID, err = queryInt64(r, "product_id"); err != nil {
		h.writeError(w, r, err)
		return
	}
	filter.ProductName = queryString(r, "product_name")

	items, err := h.service.QueryItems(r.Context(), wishlistID, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, items)
}

// GetItem handles GET /wishlists/{id}/items/{product_id}
func (h *WishlistHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	wishlistID, productID, err := itemKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.service.GetItem(r.Context(), wishlistID, productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, item)
}

// RenameItem handles PUT /wishlists/{id}/items/{product_id}
func (h *WishlistHandler) RenameItem(w http.ResponseWriter, r *http.Request) {
	wishlistID, productID, err := itemKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req RenameItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	item, err := h.service.RenameItem(r.Context(), wishlistID, productID, req.ProductName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /wishlists/{id}/items/{product_id}
func (h *WishlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	wishlistID, productID, err := itemKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.DeleteItem(r.Context(), wishlistID, productID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddItemToCart handles PUT /wishlists/{id}/items/{product_id}/add-to-cart
func (h *WishlistHandler) AddItemToCart(w http.ResponseWriter, r *http.Request) {
	wishlistID, productID, err := itemKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.AddItemToCart(r.Context(), wishlistID, productID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func itemKey(r *http.Request) (wishlistID, productID int64, err error) {
	if wishlistID, err = pathInt64(r, "id"); err != nil {
		return 0, 0, err
	}
	if productID, err = pathInt64(r, "product_id"); err != nil {
		return 0, 0, err
	}
	return wishlistID, productID, nil
}
