package domain

// Wishlist is a named collection of products owned by a customer.
type Wishlist struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CustomerID int64  `json:"customer_id"`
}

// Item is a product saved in a wishlist. The pair (WishlistID, ProductID)
// identifies it; ID only records insertion order.
type Item struct {
	ID          int64  `json:"id"`
	WishlistID  int64  `json:"wishlist_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
}
