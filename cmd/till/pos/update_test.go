package pos

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"till/internal/api"
	"till/internal/catalog"
	"till/internal/config"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	client, err := api.New("http://localhost:1/api")
	require.NoError(t, err)
	cfg := config.DefaultConfig()
	m := New(client, cfg, catalog.User{Username: "maria", FullName: "Maria"}, zap.NewNop())
	_ = m.Init()
	t.Cleanup(m.Close)
	return m
}

func product(id, name string, price float64) catalog.Product {
	return catalog.Product{ID: id, Name: name, Price: price}
}

func TestScanResultAddsToCart(t *testing.T) {
	m := newTestModel(t)
	m.lookupSeq = 1

	hit := catalog.BarcodeHit{Product: product("p1", "Leche 1L", 24.50)}
	next, _ := m.Update(scanResultMsg{seq: 1, hit: &hit})
	m = next.(Model)

	require.Equal(t, 1, m.cart.Len())
	line, ok := m.cart.Line("p1", 1)
	require.True(t, ok)
	require.Equal(t, 24.50, line.LineTotal)
	require.Equal(t, 0, m.selected)
}

func TestStaleScanResultDropped(t *testing.T) {
	m := newTestModel(t)
	m.lookupSeq = 3 // a newer scan is already in flight

	hit := catalog.BarcodeHit{Product: product("p1", "Leche 1L", 24.50)}
	next, _ := m.Update(scanResultMsg{seq: 2, hit: &hit})
	m = next.(Model)

	require.Equal(t, 0, m.cart.Len())
}

func TestScanUnknownBarcodeKeepsCart(t *testing.T) {
	m := newTestModel(t)
	m.lookupSeq = 1
	m.cart.Add(product("p1", "Pan", 12.00), 1)

	next, _ := m.Update(scanResultMsg{seq: 1, code: "9999", err: api.ErrNotFound})
	m = next.(Model)

	require.Equal(t, 1, m.cart.Len())
	require.Contains(t, m.status, "9999")
}

func TestWeightProductOpensPrompt(t *testing.T) {
	m := newTestModel(t)
	m.lookupSeq = 1

	p := product("w1", "Tomate", 45.50)
	p.SellByWeight = true
	next, _ := m.Update(scanResultMsg{seq: 1, hit: &catalog.BarcodeHit{Product: p}})
	m = next.(Model)

	require.Equal(t, focusWeight, m.focus)
	require.Equal(t, 0, m.cart.Len())

	m.weightInput.SetValue("1.236")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	require.Equal(t, focusCart, m.focus)
	line, ok := m.cart.Line("w1", 1)
	require.True(t, ok)
	require.Equal(t, 56.24, line.LineTotal)
}

func TestPackScanStaysSeparateFromUnitLine(t *testing.T) {
	m := newTestModel(t)
	m.lookupSeq = 1

	p := product("p1", "Refresco", 9.00)
	next, _ := m.Update(scanResultMsg{seq: 1, hit: &catalog.BarcodeHit{Product: p}})
	m = next.(Model)

	pack := &catalog.PackBarcode{ProductID: "p1", Units: 6, PackPrice: 54.00}
	next, _ = m.Update(scanResultMsg{seq: 1, hit: &catalog.BarcodeHit{Product: p, Pack: pack}})
	m = next.(Model)

	require.Equal(t, 2, m.cart.Len())
}

func TestArrowKeysEditQuantity(t *testing.T) {
	m := newTestModel(t)
	m.cart.Add(product("p1", "Pan", 12.00), 2)
	m.selected = 0

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	line, _ := m.cart.Line("p1", 1)
	require.Equal(t, 3.0, line.Quantity)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	line, _ = m.cart.Line("p1", 1)
	require.Equal(t, 2.0, line.Quantity)
}

func TestQuantityDroppingToZeroRemovesLine(t *testing.T) {
	m := newTestModel(t)
	m.cart.Add(product("p1", "Pan", 12.00), 1)
	m.selected = 0

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)

	require.Equal(t, 0, m.cart.Len())
	require.Equal(t, -1, m.selected)
}

func TestPaymentRejectsInsufficientCash(t *testing.T) {
	m := newTestModel(t)
	m.cart.Add(product("p1", "Pan", 100.00), 1) // total 116.00 with tax
	m.focus = focusPayment
	m.payMethod = catalog.PayCash
	m.cashInput.SetValue("100")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	require.Nil(t, cmd)
	require.Equal(t, focusPayment, m.focus)
	require.Contains(t, m.status, "insufficient")
}

func TestSaleResultClearsCart(t *testing.T) {
	m := newTestModel(t)
	m.cart.Add(product("p1", "Pan", 12.00), 2)

	sale := &catalog.Sale{ID: "s-1234567890", Total: 27.84}
	next, _ := m.Update(saleResultMsg{sale: sale})
	m = next.(Model)

	require.True(t, m.cart.IsEmpty())
	require.Equal(t, focusReceipt, m.focus)

	// Any key dismisses the receipt.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	require.Equal(t, focusCart, m.focus)
	require.Nil(t, m.lastSale)
}

func TestCoalescedScanChunkBuffersEveryRune(t *testing.T) {
	m := newTestModel(t)

	// A hardware scanner's burst can land in a single KeyMsg carrying the
	// whole code.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("75001234")})
	m = next.(Model)
	require.Equal(t, 8, m.dec.Pending())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	require.True(t, m.loading)
	require.Equal(t, 0, m.dec.Pending())
}

func TestTextPromptKeysDoNotFeedDecoder(t *testing.T) {
	m := newTestModel(t)
	p := product("w1", "Tomate", 45.50)
	p.SellByWeight = true
	m.pendingWeight = &p
	m.focus = focusWeight

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m = next.(Model)

	require.Equal(t, 0, m.dec.Pending())
}
