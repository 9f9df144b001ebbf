// Package client holds the outbound HTTP clients for the product catalog and
// shopping cart services.
package client

import (
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

const errProductDetails = "unable to fetch name/price for product"

// ProductDetails is the subset of a catalog product needed to build a cart line.
type ProductDetails struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// catalogProduct mirrors the catalog's product representation. Price accepts
// both JSON numbers and quoted decimals.
type catalogProduct struct {
	ID    int64            `json:"id"`
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// CatalogClient looks up products in the catalog service.
type CatalogClient struct {
	baseURL string
	http    httpclient.Doer
	logger  *slog.Logger
}

// NewCatalogClient creates a catalog client rooted at baseURL.
func NewCatalogClient(baseURL string, doer httpclient.Doer, logger *slog.Logger) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}
}

// GetProductDetails fetches the name and price of a product. A catalog 404
// yields a NotFound error; every other failure is reported as Upstream.
func (c *CatalogClient) GetProductDetails(ctx context.Context, productID int64) (*ProductDetails, error) {
	id := strconv.FormatInt(productID, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+id, nil)
	if err != nil {
		return nil, apperrors.Upstream(errProductDetails, fmt.Errorf("create catalog request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "catalog request failed",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Upstream(errProductDetails, fmt.Errorf("call catalog service: %w", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		statusErr := httpclient.ParseResponseError(resp, "catalog")
		c.logger.WarnContext(ctx, "product not found in catalog",
			slog.Int64("product_id", productID),
			slog.String("error", statusErr.Error()),
		)
		return nil, apperrors.NotFoundf("Product with id '%d' was not found in the catalog", productID)
	default:
		statusErr := httpclient.ParseResponseError(resp, "catalog")
		c.logger.Log(ctx, statusLogLevel(resp.StatusCode), "catalog returned unexpected status",
			slog.Int64("product_id", productID),
			slog.Int("status", resp.StatusCode),
			slog.String("error", statusErr.Error()),
		)
		return nil, apperrors.Upstream(errProductDetails, statusErr)
	}

	var product catalogProduct
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		c.logger.ErrorContext(ctx, "catalog response is not a product",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Upstream(errProductDetails, fmt.Errorf("decode catalog product: %w", err))
	}

	if product.Name == "" || product.Price == nil {
		c.logger.ErrorContext(ctx, "catalog product is missing name or price",
			slog.Int64("product_id", productID),
		)
		return nil, apperrors.Upstream(errProductDetails, nil)
	}

	return &ProductDetails{
		ID:    productID,
		Name:  product.Name,
		Price: *product.Price,
	}, nil
}

// statusLogLevel logs rejected requests at warn and downstream faults at error.
func statusLogLevel(status int) slog.Level {
	if httpclient.IsClientError(status) {
		return slog.LevelWarn
	}
	return slog.LevelError
}
