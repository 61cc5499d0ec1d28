package admin

import (
	"fmt"
	"strings"

	"till/cmd/till/ui"
)

// View renders the back-office screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch m.overlay {
	case overlaySearch:
		b.WriteString(m.styles.Overlay.Render("Search: " + m.search.View()))
	case overlayAdjust:
		b.WriteString(m.viewAdjust())
	case overlayVoid:
		b.WriteString(m.viewVoid())
	case overlayNewUser:
		b.WriteString(m.viewNewUser())
	default:
		b.WriteString(m.viewTab())
	}

	b.WriteString("\n\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewTabs() string {
	var parts []string
	for t := tab(0); t < tabCount; t++ {
		label := " " + t.String() + " "
		if t == m.tab {
			parts = append(parts, m.styles.Selected.Render(label))
		} else {
			parts = append(parts, m.styles.Muted.Render(label))
		}
	}
	row := strings.Join(parts, " ")
	who := m.styles.Muted.Render(m.user.Username + " · " + m.user.Role)
	return row + "   " + who
}

func (m Model) viewTab() string {
	switch m.tab {
	case tabSales:
		return m.viewSales()
	case tabReport:
		return m.viewReport()
	case tabUsers:
		return m.viewUsers()
	default:
		return m.viewProducts()
	}
}

func (m Model) viewProducts() string {
	if len(m.products) == 0 {
		return m.styles.Muted.Render("No products. Press / to search or r to reload.")
	}
	tbl := ui.NewTable(
		ui.Column{Title: "Name"},
		ui.Column{Title: "Barcode"},
		ui.Column{Title: "Price", Align: ui.AlignRight},
		ui.Column{Title: "Stock", Align: ui.AlignRight},
	)
	tbl.Selected = m.selected
	for _, p := range m.products {
		stock := fmt.Sprintf("%d", p.Stock)
		if p.LowStock() {
			stock = m.styles.Warning.Render(stock + " !")
		}
		tbl.AddRow(clip(p.Name, 32), p.Barcode, fmt.Sprintf("%.2f", p.Price), stock)
	}
	return tbl.View(m.styles)
}

func (m Model) viewSales() string {
	if len(m.sales) == 0 {
		return m.styles.Muted.Render("No sales on " + m.reportDate.Format("2006-01-02") + ".")
	}
	tbl := ui.NewTable(
		ui.Column{Title: "Time"},
		ui.Column{Title: "Sale"},
		ui.Column{Title: "Items", Align: ui.AlignRight},
		ui.Column{Title: "Total", Align: ui.AlignRight},
		ui.Column{Title: "Pay"},
		ui.Column{Title: "Status"},
	)
	tbl.Selected = m.selected
	for _, s := range m.sales {
		status := s.Status
		if s.Status == "voided" {
			status = m.styles.Error.Render(status)
		}
		tbl.AddRow(
			s.CreatedAt.Format("15:04"),
			clip(s.ID, 8),
			fmt.Sprintf("%d", len(s.Items)),
			fmt.Sprintf("%.2f", s.Total),
			s.PaymentMethod,
			status,
		)
	}
	return tbl.View(m.styles)
}

func (m Model) viewReport() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Daily report · " + m.reportDate.Format("2006-01-02")))
	b.WriteString("\n\n")

	if m.report == nil {
		b.WriteString(m.styles.Muted.Render("Loading…"))
		return b.String()
	}
	r := m.report

	b.WriteString(fmt.Sprintf("%-16s %10.2f\n", "Total sales", r.TotalSales))
	b.WriteString(fmt.Sprintf("%-16s %10d\n", "Transactions", r.TransactionCount))
	b.WriteString(fmt.Sprintf("%-16s %10.2f\n", "Average ticket", r.AvgTicket))

	if len(r.TopProducts) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Bold.Render("Top sellers"))
		b.WriteString("\n")
		tbl := ui.NewTable(
			ui.Column{Title: "Product"},
			ui.Column{Title: "Qty", Align: ui.AlignRight},
			ui.Column{Title: "Revenue", Align: ui.AlignRight},
		)
		for _, tp := range r.TopProducts {
			tbl.AddRow(clip(tp.ProductName, 32),
				fmt.Sprintf("%.0f", tp.QuantitySold),
				fmt.Sprintf("%.2f", tp.Revenue))
		}
		b.WriteString(tbl.View(m.styles))
	}
	return b.String()
}

func (m Model) viewUsers() string {
	if len(m.users) == 0 {
		return m.styles.Muted.Render("No operators. Press n to add one.")
	}
	tbl := ui.NewTable(
		ui.Column{Title: "Username"},
		ui.Column{Title: "Name"},
		ui.Column{Title: "Role"},
		ui.Column{Title: "Active"},
	)
	tbl.Selected = m.selected
	for _, u := range m.users {
		active := "yes"
		if !u.IsActive {
			active = m.styles.Muted.Render("no")
		}
		tbl.AddRow(u.Username, clip(u.FullName, 28), u.Role, active)
	}
	return tbl.View(m.styles)
}

func (m Model) viewAdjust() string {
	p := m.products[m.selected]
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Adjust stock · " + p.Name))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Current stock: %d\n\n", p.Stock))
	b.WriteString("Quantity: " + m.adjustQty.View() + "\n")
	b.WriteString("Notes:    " + m.adjustNotes.View() + "\n\n")
	b.WriteString("Reason (↑/↓): ")
	for i, r := range adjustReasons {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == m.reasonSel {
			b.WriteString(m.styles.Selected.Render(" " + r + " "))
		} else {
			b.WriteString(m.styles.Muted.Render(r))
		}
	}
	return m.styles.Overlay.Render(b.String())
}

func (m Model) viewVoid() string {
	s := m.sales[m.selected]
	text := fmt.Sprintf("Void sale %s for %.2f?\n\nStock will be restored. y to confirm, any other key cancels.",
		clip(s.ID, 8), s.Total)
	return m.styles.Overlay.Render(m.styles.Error.Render("VOID SALE") + "\n\n" + text)
}

func (m Model) viewNewUser() string {
	labels := []string{"Username", "Full name", "Password", "PIN"}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("New operator"))
	b.WriteString("\n\n")
	for i, in := range m.userInputs {
		b.WriteString(fmt.Sprintf("%-10s %s\n", labels[i]+":", in.View()))
	}
	b.WriteString("\nRole (←/→): ")
	for i, r := range userRoles {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == m.roleSel {
			b.WriteString(m.styles.Selected.Render(" " + r + " "))
		} else {
			b.WriteString(m.styles.Muted.Render(r))
		}
	}
	return m.styles.Overlay.Render(b.String())
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
	switch {
	case m.overlay == overlayAdjust:
		hints = "tab field · ↑/↓ reason · enter apply · esc cancel"
	case m.overlay == overlayNewUser:
		hints = "tab next field · ←/→ role · enter save · esc cancel"
	case m.overlay != overlayNone:
		hints = "enter confirm · esc cancel"
	case m.tab == tabProducts:
		hints = "tab switch · ↑/↓ select · / search · s adjust stock · r reload · ctrl+c quit"
	case m.tab == tabSales:
		hints = "tab switch · ↑/↓ select · v void · r reload · ctrl+c quit"
	case m.tab == tabReport:
		hints = "tab switch · ←/→ change day · r reload · ctrl+c quit"
	default:
		hints = "tab switch · ↑/↓ select · n new user · r reload · ctrl+c quit"
	}
	return m.styles.Footer.Render(hints)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
