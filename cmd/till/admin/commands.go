package admin

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"till/internal/api"
	"till/internal/catalog"
)

const requestTimeout = 10 * time.Second

type productsMsg struct {
	products []catalog.Product
	err      error
}

type salesMsg struct {
	sales []catalog.Sale
	err   error
}

type reportMsg struct {
	report *catalog.DailySummary
	err    error
}

type usersMsg struct {
	users []catalog.User
	err   error
}

type adjustedMsg struct {
	productID string
	err       error
}

type voidedMsg struct {
	sale *catalog.Sale
	err  error
}

type userCreatedMsg struct {
	user *catalog.User
	err  error
}

func (m Model) loadProducts(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		products, err := client.SearchProducts(ctx, query, 100)
		return productsMsg{products: products, err: err}
	}
}

func (m Model) loadSales(date time.Time) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sales, err := client.Sales(ctx, date.Format("2006-01-02"), "", 100)
		return salesMsg{sales: sales, err: err}
	}
}

func (m Model) loadReport(date time.Time) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		report, err := client.DailySummary(ctx, date.Format("2006-01-02"))
		return reportMsg{report: report, err: err}
	}
}

func (m Model) loadUsers() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		users, err := client.Users(ctx)
		return usersMsg{users: users, err: err}
	}
}

func (m Model) doAdjust(productID string, qty int, reason, notes string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := client.AdjustStock(ctx, productID, qty, reason, notes)
		return adjustedMsg{productID: productID, err: err}
	}
}

func (m Model) doVoid(saleID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sale, err := client.VoidSale(ctx, saleID)
		return voidedMsg{sale: sale, err: err}
	}
}

func (m Model) doCreateUser(in api.UserCreate) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		user, err := client.CreateUser(ctx, in)
		return userCreatedMsg{user: user, err: err}
	}
}
