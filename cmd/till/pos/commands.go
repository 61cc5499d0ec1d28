package pos

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"till/internal/api"
	"till/internal/catalog"
)

// scanResultMsg is a finished barcode lookup. seq ties it to the scan that
// requested it.
type scanResultMsg struct {
	seq  int
	code string
	hit  *catalog.BarcodeHit
	err  error
}

// searchResultMsg is a finished free-text product search.
type searchResultMsg struct {
	query    string
	products []catalog.Product
	err      error
}

// saleResultMsg is a finished sale submission.
type saleResultMsg struct {
	sale *catalog.Sale
	err  error
}

func (m Model) lookupBarcode(seq int, code string) tea.Cmd {
	client, log := m.client, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		hit, err := client.ProductByBarcode(ctx, code)
		if err != nil {
			log.Debug("barcode lookup failed", zap.String("code", code), zap.Error(err))
		}
		return scanResultMsg{seq: seq, code: code, hit: hit, err: err}
	}
}

func (m Model) searchProducts(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		products, err := client.SearchProducts(ctx, query, 20)
		return searchResultMsg{query: query, products: products, err: err}
	}
}

func (m Model) submitSale(in api.SaleCreate) tea.Cmd {
	client, cfg := m.client, m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerTimeout())
		defer cancel()
		sale, err := client.CreateSale(ctx, in)
		return saleResultMsg{sale: sale, err: err}
	}
}
