package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"till/internal/catalog"
)

// SearchProducts free-text searches active products by name or barcode.
func (c *Client) SearchProducts(ctx context.Context, search string, limit int) ([]catalog.Product, error) {
	q := url.Values{}
	q.Set("search", search)
	q.Set("limit", strconv.Itoa(limit))
	var out []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products?"+q.Encode(), nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches one product by id.
func (c *Client) Product(ctx context.Context, id string) (*catalog.Product, error) {
	var out catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductByBarcode resolves a scanned code to a product, via the product's own
// barcode or one of its pack barcodes. Concurrent lookups of the same code
// share one request.
func (c *Client) ProductByBarcode(ctx context.Context, code string) (*catalog.BarcodeHit, error) {
	v, err, _ := c.lookups.Do(code, func() (any, error) {
		var out catalog.BarcodeHit
		if err := c.do(ctx, http.MethodGet, "/products/barcode/"+url.PathEscape(code), nil, &out, true); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.BarcodeHit), nil
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductCreate is the payload for CreateProduct.
type ProductCreate struct {
	Barcode      string  `json:"barcode"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	CategoryID   *string `json:"category_id,omitempty"`
	Price        float64 `json:"price"`
	Cost         float64 `json:"cost,omitempty"`
	Stock        int     `json:"stock,omitempty"`
	MinStock     int     `json:"min_stock,omitempty"`
	SellByWeight bool    `json:"sell_by_weight,omitempty"`
}

// CreateProduct creates a product (manager/admin only, enforced server-side).
func (c *Client) CreateProduct(ctx context.Context, in ProductCreate) (*catalog.Product, error) {
	var out catalog.Product
	if err := c.do(ctx, http.MethodPost, "/products", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct patches the given fields of a product.
func (c *Client) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*catalog.Product, error) {
	var out catalog.Product
	if err := c.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), fields, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustStock applies a manual stock correction: positive to add, negative to
// subtract. The server clamps stock at zero and records who adjusted and why.
func (c *Client) AdjustStock(ctx context.Context, productID string, quantity int, reason, notes string) (*catalog.StockAdjustment, error) {
	body := map[string]any{"quantity": quantity, "reason": reason, "notes": notes}
	var out catalog.StockAdjustment
	path := fmt.Sprintf("/products/%s/adjust-stock", url.PathEscape(productID))
	if err := c.do(ctx, http.MethodPost, path, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// StockHistory lists a product's stock adjustments, newest first.
func (c *Client) StockHistory(ctx context.Context, productID string) ([]catalog.StockAdjustment, error) {
	var out []catalog.StockAdjustment
	path := fmt.Sprintf("/products/%s/stock-history", url.PathEscape(productID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// AddPackBarcode registers an alternate bundle barcode for a product.
func (c *Client) AddPackBarcode(ctx context.Context, productID, barcode string, units int, packPrice float64) (*catalog.PackBarcode, error) {
	body := map[string]any{"barcode": barcode, "units": units, "pack_price": packPrice}
	var out catalog.PackBarcode
	path := fmt.Sprintf("/products/%s/barcodes", url.PathEscape(productID))
	if err := c.do(ctx, http.MethodPost, path, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePackBarcode removes an alternate barcode.
func (c *Client) DeletePackBarcode(ctx context.Context, productID, barcodeID string) error {
	path := fmt.Sprintf("/products/%s/barcodes/%s", url.PathEscape(productID), url.PathEscape(barcodeID))
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// AddVolumePromo registers a server-side volume price break.
func (c *Client) AddVolumePromo(ctx context.Context, productID string, minUnits int, promoPrice float64) (*catalog.VolumePromo, error) {
	body := map[string]any{"min_units": minUnits, "promo_price": promoPrice}
	var out catalog.VolumePromo
	path := fmt.Sprintf("/products/%s/promos", url.PathEscape(productID))
	if err := c.do(ctx, http.MethodPost, path, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVolumePromo removes a volume price break.
func (c *Client) DeleteVolumePromo(ctx context.Context, productID, promoID string) error {
	path := fmt.Sprintf("/products/%s/promos/%s", url.PathEscape(productID), url.PathEscape(promoID))
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// PriceCheck is the public kiosk lookup. No bearer token is sent.
func (c *Client) PriceCheck(ctx context.Context, code string) (*catalog.PriceCheckResult, error) {
	var out catalog.PriceCheckResult
	if err := c.do(ctx, http.MethodGet, "/price-check/"+url.PathEscape(code), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}
