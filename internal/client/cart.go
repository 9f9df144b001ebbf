package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/utafrali/wishlist/pkg/errors"
	"github.com/utafrali/wishlist/pkg/httpclient"
)

const errAddToCart = "unable to add product to cart"

// CartLine is a single product placed into a customer's cart.
type CartLine struct {
	CustomerID int64
	ProductID  int64
	Quantity   int
	Price      decimal.Decimal
	Name       string
}

// cartLineRequest is the body accepted by the cart service. Price is sent as
// a bare JSON number.
type cartLineRequest struct {
	ProductID  int64       `json:"product_id"`
	CustomerID int64       `json:"customer_id"`
	Quantity   int         `json:"quantity"`
	Price      json.Number `json:"price"`
	Text       string      `json:"text"`
}

// CartClient adds products to customer carts in the shopping cart service.
type CartClient struct {
	baseURL string
	http    httpclient.Doer
	logger  *slog.Logger
}

// NewCartClient creates a cart client rooted at baseURL.
func NewCartClient(baseURL string, doer httpclient.Doer, logger *slog.Logger) *CartClient {
	return &CartClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}
}

// AddToCart posts line to the customer's cart. Only 200 and 201 count as
// success; any other outcome is reported as Upstream.
func (c *CartClient) AddToCart(ctx context.Context, line CartLine) error {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	body, err := json.Marshal(cartLineRequest{
		ProductID:  line.ProductID,
		CustomerID: line.CustomerID,
		Quantity:   line.Quantity,
		Price:      json.Number(line.Price.String()),
		Text:       line.Name,
	})
	if err != nil {
		return apperrors.Upstream(errAddToCart, fmt.Errorf("marshal cart line: %w", err))
	}

	url := c.baseURL + "/shopcarts/" + strconv.FormatInt(line.CustomerID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return apperrors.Upstream(errAddToCart, fmt.Errorf("create cart request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "cart request failed",
			slog.Int64("customer_id", line.CustomerID),
			slog.Int64("product_id", line.ProductID),
			slog.String("error", err.Error()),
		)
		return apperrors.Upstream(errAddToCart, fmt.Errorf("call cart service: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		statusErr := httpclient.ParseResponseError(resp, "cart")
		c.logger.Log(ctx, statusLogLevel(resp.StatusCode), "cart rejected product",
			slog.Int64("customer_id", line.CustomerID),
			slog.Int64("product_id", line.ProductID),
			slog.Int("status", resp.StatusCode),
			slog.String("error", statusErr.Error()),
		)
		return apperrors.Upstream(errAddToCart, statusErr)
	}

	return nil
}
