package pos

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"till/internal/api"
	"till/internal/cart"
	"till/internal/catalog"
)

// Update is the bubbletea update loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpView = "" // re-render help at the new width on demand
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanResultMsg:
		return m.handleScanResult(msg)

	case searchResultMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = "search failed: " + apiMessage(msg.err)
			return m, nil
		}
		if m.focus != focusSearch || m.search.Value() != msg.query {
			// The cashier moved on; drop the stale result.
			return m, nil
		}
		m.results = msg.products
		m.resultSel = 0
		m.showResults = true
		if len(msg.products) == 0 {
			m.status = fmt.Sprintf("no products match %q", msg.query)
			m.showResults = false
		}
		return m, nil

	case saleResultMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = "sale failed: " + apiMessage(msg.err)
			return m, nil
		}
		// The sale is committed server-side; the local cart is done.
		m.cart.Clear()
		m.selected = -1
		m.lastSale = msg.sale
		m.focus = focusReceipt
		m.errNote = ""
		m.status = fmt.Sprintf("sale %s completed", shortID(msg.sale.ID))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleScanResult(msg scanResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.lookupSeq {
		// An older lookup finishing after a newer scan: last scan wins.
		m.log.Debug("dropping stale lookup", zap.String("code", msg.code))
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrNotFound) {
			m.status = fmt.Sprintf("unknown barcode %s", msg.code)
		} else {
			m.errNote = apiMessage(msg.err)
		}
		return m, nil
	}
	return m.addHit(*msg.hit), nil
}

// addHit pushes one resolved scan into the cart, detouring through the
// weight prompt for scale products sold by the kilogram.
func (m Model) addHit(hit catalog.BarcodeHit) Model {
	if hit.Pack == nil && hit.Product.SellByWeight {
		p := hit.Product
		m.pendingWeight = &p
		m.weightInput.SetValue("")
		m.weightInput.Focus()
		m.focus = focusWeight
		return m
	}
	m.cart.AddHit(hit, 1)
	m.selected = m.lineIndex(hit.Product.ID, packUnits(hit))
	if hit.Pack != nil {
		m.status = fmt.Sprintf("added %s ×%d pack", hit.Product.Name, hit.Pack.Units)
	} else {
		m.status = "added " + hit.Product.Name
	}
	m.errNote = ""
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Close()
		return m, tea.Quit
	}

	// Every keystroke passes the decoder first, tagged with where it was
	// headed. A fast scanner burst can arrive coalesced into one KeyMsg
	// carrying several runes, so feed them all. A completed scan consumes
	// the Enter that terminated it.
	src := m.source()
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			m.dec.Rune(r, src)
		}
	}
	if msg.Type == tea.KeyEnter {
		if code, ok := m.dec.Enter(src); ok {
			if m.focus == focusSearch {
				// The scanner typed into the search box; the text was
				// a barcode, not a query.
				m.search.SetValue("")
				m.showResults = false
			}
			return m.startLookup(code)
		}
	}

	switch m.focus {
	case focusHelp:
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyF1 {
			m.focus = focusCart
		}
		return m, nil

	case focusReceipt:
		// Any key dismisses the receipt and starts the next sale.
		m.focus = focusCart
		m.lastSale = nil
		return m, nil

	case focusSearch:
		return m.handleSearchKey(msg)

	case focusWeight:
		return m.handleWeightKey(msg)

	case focusDiscount:
		return m.handleDiscountKey(msg)

	case focusPayment:
		return m.handlePaymentKey(msg)

	default:
		return m.handleCartKey(msg)
	}
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.cart.Lines()

	switch msg.Type {
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case tea.KeyDown:
		if m.selected < len(lines)-1 {
			m.selected++
		}
		return m, nil

	case tea.KeyLeft, tea.KeyRight:
		if m.selected < 0 || m.selected >= len(lines) {
			return m, nil
		}
		l := lines[m.selected]
		if l.Mode == cart.ModeWeight {
			m.status = "rescan weight items to change the amount"
			return m, nil
		}
		delta := 1.0
		if msg.Type == tea.KeyLeft {
			delta = -1.0
		}
		// Dropping to zero removes the line, same as delete.
		m.cart.UpdateQuantity(l.Product.ID, l.PackUnits, l.Quantity+delta)
		m.clampSelection()
		return m, nil

	case tea.KeyDelete, tea.KeyBackspace:
		if m.selected >= 0 && m.selected < len(lines) {
			l := lines[m.selected]
			m.cart.Remove(l.Product.ID, l.PackUnits)
			m.clampSelection()
		}
		return m, nil

	case tea.KeyCtrlF:
		m.focus = focusSearch
		m.search.Focus()
		return m, nil

	case tea.KeyCtrlD:
		if m.selected >= 0 && m.selected < len(lines) {
			m.discountInput.SetValue("")
			m.discountInput.Focus()
			m.focus = focusDiscount
		}
		return m, nil

	case tea.KeyCtrlL:
		m.cart.Clear()
		m.selected = -1
		m.status = "cart cleared"
		return m, nil

	case tea.KeyCtrlP:
		if m.cart.IsEmpty() {
			m.status = "cart is empty"
			return m, nil
		}
		m.payMethod = catalog.PayCash
		m.cashInput.SetValue("")
		m.cashInput.Focus()
		m.focus = focusPayment
		return m, nil

	case tea.KeyF1:
		if m.helpView == "" {
			m.helpView = renderHelp()
		}
		m.focus = focusHelp
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusCart
		m.search.Blur()
		m.search.SetValue("")
		m.showResults = false
		return m, nil

	case tea.KeyUp:
		if m.showResults && m.resultSel > 0 {
			m.resultSel--
			return m, nil
		}

	case tea.KeyDown:
		if m.showResults && m.resultSel < len(m.results)-1 {
			m.resultSel++
			return m, nil
		}

	case tea.KeyEnter:
		if m.showResults && m.resultSel >= 0 && m.resultSel < len(m.results) {
			p := m.results[m.resultSel]
			m.search.SetValue("")
			m.showResults = false
			m.search.Blur()
			m.focus = focusCart
			return m.addHit(catalog.BarcodeHit{Product: p}), nil
		}
		if q := m.search.Value(); q != "" {
			m.loading = true
			return m, tea.Batch(m.searchProducts(q), m.spinner.Tick)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleWeightKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.pendingWeight = nil
		m.weightInput.Blur()
		m.focus = focusCart
		return m, nil

	case tea.KeyEnter:
		kg, err := strconv.ParseFloat(m.weightInput.Value(), 64)
		if err != nil || kg <= 0 {
			m.status = "enter the weight in kilograms, e.g. 0.250"
			return m, nil
		}
		p := *m.pendingWeight
		m.cart.Add(p, kg)
		m.selected = m.lineIndex(p.ID, 1)
		m.status = fmt.Sprintf("added %.3f kg %s", kg, p.Name)
		m.pendingWeight = nil
		m.weightInput.Blur()
		m.focus = focusCart
		return m, nil
	}

	var cmd tea.Cmd
	m.weightInput, cmd = m.weightInput.Update(msg)
	return m, cmd
}

func (m Model) handleDiscountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.discountInput.Blur()
		m.focus = focusCart
		return m, nil

	case tea.KeyEnter:
		pct, err := strconv.ParseFloat(m.discountInput.Value(), 64)
		if err != nil || pct < 0 || pct > 100 {
			m.status = "discount must be 0–100"
			return m, nil
		}
		lines := m.cart.Lines()
		if m.selected >= 0 && m.selected < len(lines) {
			l := lines[m.selected]
			m.cart.SetDiscount(l.Product.ID, l.PackUnits, pct)
			m.status = fmt.Sprintf("%s: %.0f%% off", l.Product.Name, pct)
		}
		m.discountInput.Blur()
		m.focus = focusCart
		return m, nil
	}

	var cmd tea.Cmd
	m.discountInput, cmd = m.discountInput.Update(msg)
	return m, cmd
}

func (m Model) handlePaymentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.cashInput.Blur()
		m.focus = focusCart
		return m, nil

	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		if m.payMethod == catalog.PayCash {
			m.payMethod = catalog.PayCard
			m.cashInput.Blur()
		} else {
			m.payMethod = catalog.PayCash
			m.cashInput.Focus()
		}
		return m, nil

	case tea.KeyEnter:
		totals := m.cart.Totals()
		received := totals.Total
		if m.payMethod == catalog.PayCash {
			var err error
			received, err = strconv.ParseFloat(m.cashInput.Value(), 64)
			if err != nil {
				m.status = "enter the cash received"
				return m, nil
			}
			if received < totals.Total {
				m.status = fmt.Sprintf("insufficient cash: need %.2f", totals.Total)
				return m, nil
			}
		}
		m.loading = true
		in := api.SaleCreate{
			Items:         m.cart.SaleItems(),
			PaymentMethod: m.payMethod,
			CashReceived:  received,
		}
		m.cashInput.Blur()
		m.focus = focusCart
		return m, tea.Batch(m.submitSale(in), m.spinner.Tick)
	}

	if m.payMethod == catalog.PayCash {
		var cmd tea.Cmd
		m.cashInput, cmd = m.cashInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// startLookup issues a sequenced barcode lookup.
func (m Model) startLookup(code string) (tea.Model, tea.Cmd) {
	m.lookupSeq++
	m.loading = true
	m.errNote = ""
	return m, tea.Batch(m.lookupBarcode(m.lookupSeq, code), m.spinner.Tick)
}

// lineIndex locates a cart line by merge key for selection highlighting.
func (m Model) lineIndex(productID string, units int) int {
	for i, l := range m.cart.Lines() {
		if l.Product.ID == productID && l.PackUnits == units {
			return i
		}
	}
	return -1
}

func (m *Model) clampSelection() {
	if n := m.cart.Len(); m.selected >= n {
		m.selected = n - 1
	}
}

func packUnits(hit catalog.BarcodeHit) int {
	if hit.Pack != nil {
		return hit.Pack.Units
	}
	return 1
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// apiMessage flattens an API error into something fit for the status bar.
func apiMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
