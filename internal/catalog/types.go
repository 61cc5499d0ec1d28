// Package catalog holds the read-only domain types served by the POS backend.
// The terminal never mutates these directly; all writes go through the REST API.
package catalog

import "time"

// Category groups products for browsing and reporting.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	ParentID *string `json:"parent_id"`
}

// PackBarcode is an alternate barcode for a product representing a bundle of
// Units sold at PackPrice, distinct from Units separate unit sales.
type PackBarcode struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Barcode   string  `json:"barcode"`
	Units     int     `json:"units"`
	PackPrice float64 `json:"pack_price"`
}

// VolumePromo is a price break applied server-side when at least MinUnits are
// purchased. The terminal only displays it; it never computes promo pricing.
type VolumePromo struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	MinUnits   int     `json:"min_units"`
	PromoPrice float64 `json:"promo_price"`
}

// Product is a sellable item. Price is per unit, or per kilogram when
// SellByWeight is set.
type Product struct {
	ID           string        `json:"id"`
	Barcode      string        `json:"barcode"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	CategoryID   *string       `json:"category_id"`
	Price        float64       `json:"price"`
	Cost         float64       `json:"cost"`
	Stock        int           `json:"stock"`
	MinStock     int           `json:"min_stock"`
	ImageURL     string        `json:"image_url"`
	SellByWeight bool          `json:"sell_by_weight"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Category     *Category     `json:"category"`
	Barcodes     []PackBarcode `json:"barcodes"`
	VolumePromos []VolumePromo `json:"volume_promos"`
}

// LowStock reports whether the product is at or below its minimum stock level.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// BarcodeHit is the result of resolving a scanned code: the product, plus the
// matching pack barcode when the code was a pack code rather than the product's
// own barcode.
type BarcodeHit struct {
	Product Product      `json:"product"`
	Pack    *PackBarcode `json:"pack"`
}

// SaleItemCreate is the minimal line projection submitted to POST /sales.
// Prices are deliberately absent: the server is the pricing authority at
// commit time.
type SaleItemCreate struct {
	ProductID       string  `json:"product_id"`
	Quantity        float64 `json:"quantity"`
	DiscountPercent float64 `json:"discount_percent"`
	PackUnits       int     `json:"pack_units"`
}

// SaleItem is a committed sale line as returned by the server.
type SaleItem struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	LineTotal       float64 `json:"line_total"`
}

// Sale is a committed sale.
type Sale struct {
	ID            string     `json:"id"`
	StoreID       string     `json:"store_id"`
	UserID        string     `json:"user_id"`
	Items         []SaleItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"payment_method"`
	CashReceived  float64    `json:"cash_received"`
	ChangeGiven   float64    `json:"change_given"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Sale statuses as reported by the server.
const (
	SaleCompleted = "completed"
	SaleVoided    = "voided"
	SalePending   = "pending"
)

// Payment methods accepted by POST /sales.
const (
	PayCash  = "cash"
	PayCard  = "card"
	PayMixed = "mixed"
)

// User is a terminal operator.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	StoreID   *string   `json:"store_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Token is the login response: a bearer token plus the authenticated user.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// StockAdjustment is one manual stock correction.
type StockAdjustment struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// TopProduct is one row of the daily report's best-seller list.
type TopProduct struct {
	ProductName  string  `json:"product_name"`
	QuantitySold float64 `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// DailySummary is the daily sales report.
type DailySummary struct {
	Date             string       `json:"date"`
	TotalSales       float64      `json:"total_sales"`
	TransactionCount int          `json:"transaction_count"`
	AvgTicket        float64      `json:"avg_ticket"`
	TopProducts      []TopProduct `json:"top_products"`
}

// PriceCheckResult is the public (unauthenticated) price lookup response used
// by kiosks. Price is the pack price when the scanned code was a pack barcode,
// otherwise the unit price; UnitPrice always carries the per-unit price.
type PriceCheckResult struct {
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	UnitPrice    float64      `json:"unit_price"`
	ImageURL     string       `json:"image_url"`
	SellByWeight bool         `json:"sell_by_weight"`
	Pack         *PackBarcode `json:"pack"`
}
