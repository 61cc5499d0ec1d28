package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"till/internal/catalog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotReqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(catalog.User{ID: "u1"})
	}, WithTokenSource(StaticToken("tok-abc")))

	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestPriceCheckIsUnauthenticated(t *testing.T) {
	var gotAuth string
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(catalog.PriceCheckResult{Name: "Leche 1L", Price: 24.50, UnitPrice: 24.50})
	}, WithTokenSource(StaticToken("tok-abc")))

	res, err := c.PriceCheck(context.Background(), "7501001")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "/api/price-check/7501001", gotPath)
	assert.Equal(t, "Leche 1L", res.Name)
}

func TestNotFoundSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Product not found"})
	})

	_, err := c.ProductByBarcode(context.Background(), "0000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Detail)
}

func TestUnauthorizedSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Me(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestSearchProductsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "leche", r.URL.Query().Get("search"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode([]catalog.Product{{ID: "p1", Name: "Leche 1L"}})
	})

	got, err := c.SearchProducts(context.Background(), "leche", 25)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Leche 1L", got[0].Name)
}

func TestProductByBarcodeDecodesPack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/barcode/7501006", r.URL.Path)
		_ = json.NewEncoder(w).Encode(catalog.BarcodeHit{
			Product: catalog.Product{ID: "p1", Name: "Refresco", Price: 10},
			Pack:    &catalog.PackBarcode{Barcode: "7501006", Units: 6, PackPrice: 54},
		})
	})

	hit, err := c.ProductByBarcode(context.Background(), "7501006")
	require.NoError(t, err)
	require.NotNil(t, hit.Pack)
	assert.Equal(t, 6, hit.Pack.Units)
	assert.Equal(t, 54.0, hit.Pack.PackPrice)
}

func TestCreateSaleBody(t *testing.T) {
	var got SaleCreate
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sales", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(catalog.Sale{ID: "s1", Status: catalog.SaleCompleted, Total: 116})
	})

	sale, err := c.CreateSale(context.Background(), SaleCreate{
		Items: []catalog.SaleItemCreate{
			{ProductID: "p1", Quantity: 2, DiscountPercent: 0, PackUnits: 1},
			{ProductID: "p1", Quantity: 1, PackUnits: 6},
		},
		PaymentMethod: catalog.PayCash,
		CashReceived:  200,
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.SaleCompleted, sale.Status)

	require.Len(t, got.Items, 2)
	assert.Equal(t, 6, got.Items[1].PackUnits)
	assert.Equal(t, catalog.PayCash, got.PaymentMethod)
	assert.Equal(t, 200.0, got.CashReceived)
}

func TestLoginSendsForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "maria", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret", r.PostForm.Get("password"))
		_ = json.NewEncoder(w).Encode(catalog.Token{
			AccessToken: "tok-1",
			TokenType:   "bearer",
			User:        catalog.User{Username: "maria", Role: "cashier"},
		})
	})

	tok, err := c.Login(context.Background(), "maria", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.Equal(t, "cashier", tok.User.Role)
}

func TestAdjustStockPayload(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p1/adjust-stock", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(catalog.StockAdjustment{ProductID: "p1", Quantity: -3, Reason: "damage"})
	})

	adj, err := c.AdjustStock(context.Background(), "p1", -3, "damage", "dropped pallet")
	require.NoError(t, err)
	assert.Equal(t, -3, adj.Quantity)
	assert.Equal(t, float64(-3), got["quantity"])
	assert.Equal(t, "damage", got["reason"])
	assert.Equal(t, "dropped pallet", got["notes"])
}

func TestVoidSalePath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sales/s9/void", r.URL.Path)
		_ = json.NewEncoder(w).Encode(catalog.Sale{ID: "s9", Status: catalog.SaleVoided})
	})

	sale, err := c.VoidSale(context.Background(), "s9")
	require.NoError(t, err)
	assert.Equal(t, catalog.SaleVoided, sale.Status)
}

func TestServerErrorWithoutDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.DailySummary(context.Background(), "")
	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.False(t, errors.Is(err, ErrNotFound))
}
