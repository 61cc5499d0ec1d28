// Package cart implements the in-memory cart engine for an in-progress sale:
// line items keyed by (product, pack granularity), per-line totals rounded at
// the cent, and derived subtotal/tax/total. The engine is purely synchronous
// and performs no I/O; submitting the sale is the caller's job.
package cart

import "till/internal/catalog"

// Mode is the pricing mode of a line. The three modes are an explicit variant
// of what the wire format encodes through (pack_units, pack_price).
type Mode int

const (
	// ModeUnit sells discrete units at Product.Price.
	ModeUnit Mode = iota
	// ModePack sells bundles of PackUnits units at PackPrice per bundle.
	ModePack
	// ModeWeight sells a fractional kilogram quantity at Product.Price per kg.
	ModeWeight
)

func (m Mode) String() string {
	switch m {
	case ModePack:
		return "pack"
	case ModeWeight:
		return "weight"
	default:
		return "unit"
	}
}

// Line is one cart line. Product is a shared read-only reference; the cart
// never mutates it. Quantity is a whole number for unit and pack lines and a
// fractional kilogram amount for weight lines.
type Line struct {
	Product         catalog.Product
	Mode            Mode
	PackUnits       int     // 1 for unit and weight lines
	PackPrice       float64 // set only for pack lines
	Quantity        float64
	DiscountPercent float64
	LineTotal       float64
}

// UnitPrice is the effective price per quantity increment: the pack price for
// pack lines, the product price (per unit, or per kg) otherwise.
func (l Line) UnitPrice() float64 {
	if l.Mode == ModePack {
		return l.PackPrice
	}
	return l.Product.Price
}

func (l *Line) recalc() {
	l.LineTotal = Round2(l.UnitPrice() * l.Quantity * (1 - l.DiscountPercent/100))
}

// Cart is the ordered line collection for one in-progress sale. One cart per
// active sale, created empty at sale start, cleared on completion. All methods
// are synchronous; the cart is meant to be driven from a single event loop.
type Cart struct {
	taxRate float64
	lines   []Line
}

// Totals is the derived cart breakdown.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// New returns an empty cart taxed at rate. Pass DefaultTaxRate unless the
// store configuration overrides it.
func New(rate float64) *Cart {
	return &Cart{taxRate: rate}
}

// find returns the index of the line with merge key (productID, packUnits),
// or -1. The same product at a different pack granularity is a distinct line.
func (c *Cart) find(productID string, packUnits int) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID && c.lines[i].PackUnits == packUnits {
			return i
		}
	}
	return -1
}

// Add adds qty of p as a unit line, or as a weight line (qty in kilograms)
// when p sells by weight. Adding a product already in the cart at the same
// granularity increments the existing line, keeping its discount. qty must be
// positive; validation of the product itself (price, stock) belongs to the
// catalog service.
func (c *Cart) Add(p catalog.Product, qty float64) {
	mode := ModeUnit
	if p.SellByWeight {
		mode = ModeWeight
	}
	c.add(Line{Product: p, Mode: mode, PackUnits: 1, Quantity: qty})
}

// AddPack adds qty bundles of p at the pack barcode's granularity: units per
// bundle at price per bundle. A unit line for the same product stays separate.
func (c *Cart) AddPack(p catalog.Product, units int, price float64, qty float64) {
	c.add(Line{Product: p, Mode: ModePack, PackUnits: units, PackPrice: price, Quantity: qty})
}

// AddHit adds one scan resolution: a pack line when the scanned code was a
// pack barcode, a unit or weight line otherwise.
func (c *Cart) AddHit(hit catalog.BarcodeHit, qty float64) {
	if hit.Pack != nil {
		c.AddPack(hit.Product, hit.Pack.Units, hit.Pack.PackPrice, qty)
		return
	}
	c.Add(hit.Product, qty)
}

func (c *Cart) add(l Line) {
	if l.Quantity <= 0 {
		return
	}
	if i := c.find(l.Product.ID, l.PackUnits); i >= 0 {
		c.lines[i].Quantity += l.Quantity
		c.lines[i].recalc()
		return
	}
	l.recalc()
	c.lines = append(c.lines, l)
}

// UpdateQuantity sets the quantity of the matching line. A quantity of zero or
// less removes the line; updating an absent line is a no-op.
func (c *Cart) UpdateQuantity(productID string, packUnits int, qty float64) {
	i := c.find(productID, packUnits)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Quantity = qty
	c.lines[i].recalc()
}

// SetDiscount sets the matching line's discount percent (clamped to 0..100)
// and recomputes its total. No-op when the line is absent.
func (c *Cart) SetDiscount(productID string, packUnits int, pct float64) {
	i := c.find(productID, packUnits)
	if i < 0 {
		return
	}
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	c.lines[i].DiscountPercent = pct
	c.lines[i].recalc()
}

// Remove removes the matching line; no-op when absent.
func (c *Cart) Remove(productID string, packUnits int) {
	if i := c.find(productID, packUnits); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// TaxRate returns the tax rate the cart was created with.
func (c *Cart) TaxRate() float64 { return c.taxRate }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line with the given merge key.
func (c *Cart) Line(productID string, packUnits int) (Line, bool) {
	if i := c.find(productID, packUnits); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Totals derives subtotal, tax and total from the current lines. It is
// recomputed from scratch on every read; at POS scale (tens of lines) caching
// buys nothing.
func (c *Cart) Totals() Totals {
	var t Totals
	for i := range c.lines {
		t.Subtotal += c.lines[i].LineTotal
	}
	t.Tax = Round2(t.Subtotal * c.taxRate)
	t.Total = Round2(t.Subtotal + t.Tax)
	return t
}

// SaleItems projects the cart into the submission records for POST /sales.
func (c *Cart) SaleItems() []catalog.SaleItemCreate {
	items := make([]catalog.SaleItemCreate, 0, len(c.lines))
	for i := range c.lines {
		l := &c.lines[i]
		items = append(items, catalog.SaleItemCreate{
			ProductID:       l.Product.ID,
			Quantity:        l.Quantity,
			DiscountPercent: l.DiscountPercent,
			PackUnits:       l.PackUnits,
		})
	}
	return items
}
