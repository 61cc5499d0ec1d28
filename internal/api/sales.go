package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"till/internal/catalog"
)

// SaleCreate is the payload for CreateSale. Items come straight from
// cart.SaleItems(); the server reprices every line at commit time.
type SaleCreate struct {
	Items         []catalog.SaleItemCreate `json:"items"`
	PaymentMethod string                   `json:"payment_method"`
	CashReceived  float64                  `json:"cash_received"`
}

// CreateSale submits a completed cart as an immutable sale.
func (c *Client) CreateSale(ctx context.Context, in SaleCreate) (*catalog.Sale, error) {
	var out catalog.Sale
	if err := c.do(ctx, http.MethodPost, "/sales", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sales lists sales. date is "YYYY-MM-DD" (empty for all), status filters by
// sale status (empty for the server default).
func (c *Client) Sales(ctx context.Context, date, status string, limit int) ([]catalog.Sale, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if date != "" {
		q.Set("date", date)
	}
	if status != "" {
		q.Set("status", status)
	}
	var out []catalog.Sale
	if err := c.do(ctx, http.MethodGet, "/sales?"+q.Encode(), nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Sale fetches one sale by id.
func (c *Client) Sale(ctx context.Context, id string) (*catalog.Sale, error) {
	var out catalog.Sale
	if err := c.do(ctx, http.MethodGet, "/sales/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// VoidSale voids a completed sale and restores its stock (manager/admin only).
func (c *Client) VoidSale(ctx context.Context, id string) (*catalog.Sale, error) {
	var out catalog.Sale
	if err := c.do(ctx, http.MethodPost, "/sales/"+url.PathEscape(id)+"/void", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DailySummary fetches the daily report; date "YYYY-MM-DD", empty for today.
func (c *Client) DailySummary(ctx context.Context, date string) (*catalog.DailySummary, error) {
	path := "/sales/reports/daily"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	var out catalog.DailySummary
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}
