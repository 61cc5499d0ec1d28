package pos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"till/cmd/till/ui"
	"till/internal/cart"
)

const helpText = `# Cashier keys

| Key | Action |
|-----|--------|
| scan | add the scanned product |
| ctrl+f | search products by name |
| up / down | select a cart line |
| left / right | decrease / increase quantity |
| delete | remove the selected line |
| ctrl+d | discount the selected line |
| ctrl+l | clear the cart |
| ctrl+p | take payment |
| esc | close a prompt |
| ctrl+c | quit |

Weight products prompt for kilograms after the scan.
`

// View renders the cashier screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch m.focus {
	case focusHelp:
		b.WriteString(m.viewHelp())
	case focusReceipt:
		b.WriteString(m.viewReceipt())
	case focusPayment:
		b.WriteString(m.viewPayment())
	default:
		b.WriteString(m.viewRegister())
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	left := m.styles.Header.Render(" " + m.cfg.Store.Name + " ")
	right := m.styles.Muted.Render(m.user.FullName)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// viewRegister is the main layout: search bar, result list, cart and totals.
func (m Model) viewRegister() string {
	var b strings.Builder

	if m.focus == focusSearch {
		b.WriteString(m.styles.Title.Render("Search") + " " + m.search.View())
		b.WriteString("\n")
		if m.showResults {
			b.WriteString(m.viewResults())
		}
		b.WriteString("\n")
	}

	if m.cart.IsEmpty() {
		b.WriteString(m.styles.Muted.Render("Scan an item to start a sale."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.viewCart())
	}

	b.WriteString("\n")
	b.WriteString(m.viewTotals())

	if m.focus == focusWeight && m.pendingWeight != nil {
		b.WriteString("\n\n")
		prompt := fmt.Sprintf("%s  %s/kg\nWeight (kg): %s",
			m.styles.Title.Render(m.pendingWeight.Name),
			money(m.pendingWeight.Price),
			m.weightInput.View())
		b.WriteString(m.styles.Overlay.Render(prompt))
	}

	if m.focus == focusDiscount {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Overlay.Render("Discount %: " + m.discountInput.View()))
	}

	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	for i, p := range m.results {
		label := fmt.Sprintf("%-30s %8s", truncate(p.Name, 30), money(p.Price))
		if p.SellByWeight {
			label += " /kg"
		}
		if i == m.resultSel {
			b.WriteString(m.styles.Selected.Render("▸ " + label))
		} else {
			b.WriteString(m.styles.Body.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewCart() string {
	tbl := ui.NewTable(
		ui.Column{Title: "Item"},
		ui.Column{Title: "Qty", Align: ui.AlignRight},
		ui.Column{Title: "Price", Align: ui.AlignRight},
		ui.Column{Title: "Disc", Align: ui.AlignRight},
		ui.Column{Title: "Total", Align: ui.AlignRight},
	)
	tbl.Selected = m.selected

	for _, l := range m.cart.Lines() {
		name := l.Product.Name
		qty := fmt.Sprintf("%.0f", l.Quantity)
		switch l.Mode {
		case cart.ModePack:
			name = fmt.Sprintf("%s (×%d)", name, l.PackUnits)
		case cart.ModeWeight:
			qty = fmt.Sprintf("%.3f kg", l.Quantity)
		}
		disc := ""
		if l.DiscountPercent > 0 {
			disc = fmt.Sprintf("%.0f%%", l.DiscountPercent)
		}
		tbl.AddRow(truncate(name, 34), qty, money(l.UnitPrice()), disc, money(l.LineTotal))
	}

	return tbl.View(m.styles)
}

func (m Model) viewTotals() string {
	t := m.cart.Totals()
	var b strings.Builder
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%-12s %10s", "Subtotal", money(t.Subtotal))))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%-12s %10s", taxLabel(m.cart.TaxRate()), money(t.Tax))))
	b.WriteString("\n")
	b.WriteString(m.styles.TotalLine.Render(fmt.Sprintf("%-12s %10s", "TOTAL", money(t.Total))))
	return b.String()
}

func (m Model) viewPayment() string {
	t := m.cart.Totals()
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Payment"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.BigPrice.Render(money(t.Total)))
	b.WriteString("\n\n")

	cash := "  cash  "
	card := "  card  "
	if m.payMethod == "cash" {
		cash = m.styles.Selected.Render(cash)
		card = m.styles.Muted.Render(card)
	} else {
		cash = m.styles.Muted.Render(cash)
		card = m.styles.Selected.Render(card)
	}
	b.WriteString(cash + "  " + card)
	b.WriteString("\n\n")

	if m.payMethod == "cash" {
		b.WriteString("Received: " + m.cashInput.View())
		if v, err := parseMoney(m.cashInput.Value()); err == nil && v >= t.Total {
			change := cart.Round2(v - t.Total)
			b.WriteString("\n" + m.styles.Success.Render("Change:   "+money(change)))
		}
	} else {
		b.WriteString(m.styles.Muted.Render("Charge the card terminal, then press enter."))
	}

	return m.styles.Overlay.Render(b.String())
}

func (m Model) viewReceipt() string {
	s := m.lastSale
	if s == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(m.styles.Success.Render("SALE COMPLETED"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(shortID(s.ID) + "  " + s.CreatedAt.Format("15:04:05")))
	b.WriteString("\n\n")

	for _, it := range s.Items {
		b.WriteString(fmt.Sprintf("%-28s %8s\n", truncate(it.ProductName, 28), money(it.LineTotal)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-12s %10s\n", "Subtotal", money(s.Subtotal)))
	b.WriteString(fmt.Sprintf("%-12s %10s\n", "Tax", money(s.Tax)))
	b.WriteString(m.styles.TotalLine.Render(fmt.Sprintf("%-12s %10s", "TOTAL", money(s.Total))))
	b.WriteString("\n")
	if s.PaymentMethod == "cash" {
		b.WriteString(fmt.Sprintf("%-12s %10s\n", "Cash", money(s.CashReceived)))
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("%-12s %10s", "Change", money(s.ChangeGiven))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("press any key for the next sale"))

	return m.styles.Overlay.Render(b.String())
}

func (m Model) viewHelp() string {
	if m.helpView != "" {
		return m.helpView
	}
	return helpText
}

func renderHelp() string {
	out, err := glamour.Render(helpText, "auto")
	if err != nil {
		return helpText
	}
	return out
}

func (m Model) viewStatus() string {
	switch {
	case m.errNote != "":
		return m.styles.Error.Render(m.errNote)
	case m.loading:
		return m.spinner.View() + " " + m.styles.Muted.Render("working…")
	case m.status != "":
		return m.styles.Body.Render(m.status)
	}
	return ""
}

func (m Model) viewFooter() string {
	var hints string
	switch m.focus {
	case focusSearch:
		hints = "enter search · ↑/↓ pick · esc back"
	case focusWeight:
		hints = "enter confirm · esc cancel"
	case focusDiscount:
		hints = "enter apply · esc cancel"
	case focusPayment:
		hints = "←/→ method · enter charge · esc back"
	case focusHelp:
		hints = "esc back"
	case focusReceipt:
		hints = "any key continues"
	default:
		hints = "scan item · ctrl+f search · ctrl+p pay · F1 help · ctrl+c quit"
	}
	return m.styles.Footer.Render(hints)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func parseMoney(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func taxLabel(rate float64) string {
	return fmt.Sprintf("Tax %.0f%%", rate*100)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
