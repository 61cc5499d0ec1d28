package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"till/internal/api"
)

// Update is the bubbletea update loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case productsMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = errText(msg.err)
			return m, nil
		}
		m.products = msg.products
		m.clampSelection(len(m.products))
		m.errNote = ""
		return m, nil

	case salesMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = errText(msg.err)
			return m, nil
		}
		m.sales = msg.sales
		m.clampSelection(len(m.sales))
		m.errNote = ""
		return m, nil

	case reportMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = errText(msg.err)
			return m, nil
		}
		m.report = msg.report
		m.errNote = ""
		return m, nil

	case usersMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = errText(msg.err)
			return m, nil
		}
		m.users = msg.users
		m.clampSelection(len(m.users))
		m.errNote = ""
		return m, nil

	case adjustedMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = "adjustment failed: " + errText(msg.err)
			return m, nil
		}
		m.status = "stock adjusted"
		m.loading = true
		return m, tea.Batch(m.loadProducts(m.search.Value()), m.spinner.Tick)

	case voidedMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = "void failed: " + errText(msg.err)
			return m, nil
		}
		m.status = "sale voided, stock restored"
		m.loading = true
		return m, tea.Batch(m.loadSales(m.reportDate), m.spinner.Tick)

	case userCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.errNote = "user creation failed: " + errText(msg.err)
			return m, nil
		}
		m.status = "created " + msg.user.Username
		m.loading = true
		return m, tea.Batch(m.loadUsers(), m.spinner.Tick)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.overlay {
	case overlaySearch:
		return m.handleSearchKey(msg)
	case overlayAdjust:
		return m.handleAdjustKey(msg)
	case overlayVoid:
		return m.handleVoidKey(msg)
	case overlayNewUser:
		return m.handleNewUserKey(msg)
	}

	switch msg.Type {
	case tea.KeyTab:
		m.tab = (m.tab + 1) % tabCount
		return m.enterTab()
	case tea.KeyShiftTab:
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m.enterTab()
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case tea.KeyDown:
		if m.selected < m.listLen()-1 {
			m.selected++
		}
		return m, nil
	case tea.KeyLeft, tea.KeyRight:
		if m.tab == tabReport {
			if msg.Type == tea.KeyLeft {
				m.reportDate = m.reportDate.AddDate(0, 0, -1)
			} else {
				m.reportDate = m.reportDate.AddDate(0, 0, 1)
			}
			m.loading = true
			return m, tea.Batch(m.loadReport(m.reportDate), m.spinner.Tick)
		}
		return m, nil
	}

	switch msg.String() {
	case "r":
		return m.enterTab()
	case "/":
		if m.tab == tabProducts {
			m.overlay = overlaySearch
			m.search.Focus()
		}
		return m, nil
	case "s":
		if m.tab == tabProducts && m.selected >= 0 && m.selected < len(m.products) {
			m.overlay = overlayAdjust
			m.adjustQty.SetValue("")
			m.adjustNotes.SetValue("")
			m.adjustField = 0
			m.reasonSel = 0
			m.adjustQty.Focus()
		}
		return m, nil
	case "v":
		if m.tab == tabSales && m.selected >= 0 && m.selected < len(m.sales) {
			m.overlay = overlayVoid
		}
		return m, nil
	case "n":
		if m.tab == tabUsers {
			m.overlay = overlayNewUser
			for i := range m.userInputs {
				m.userInputs[i].SetValue("")
				m.userInputs[i].Blur()
			}
			m.userField = 0
			m.roleSel = 0
			m.userInputs[0].Focus()
		}
		return m, nil
	}

	return m, nil
}

// enterTab reloads the data behind the active tab.
func (m Model) enterTab() (tea.Model, tea.Cmd) {
	m.selected = -1
	m.loading = true
	m.status = ""
	switch m.tab {
	case tabSales:
		return m, tea.Batch(m.loadSales(m.reportDate), m.spinner.Tick)
	case tabReport:
		return m, tea.Batch(m.loadReport(m.reportDate), m.spinner.Tick)
	case tabUsers:
		return m, tea.Batch(m.loadUsers(), m.spinner.Tick)
	default:
		return m, tea.Batch(m.loadProducts(m.search.Value()), m.spinner.Tick)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.overlay = overlayNone
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.overlay = overlayNone
		m.search.Blur()
		m.loading = true
		return m, tea.Batch(m.loadProducts(m.search.Value()), m.spinner.Tick)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleAdjustKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.overlay = overlayNone
		m.adjustQty.Blur()
		m.adjustNotes.Blur()
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		n := len(adjustReasons)
		if msg.Type == tea.KeyUp {
			m.reasonSel = (m.reasonSel + n - 1) % n
		} else {
			m.reasonSel = (m.reasonSel + 1) % n
		}
		return m, nil

	case tea.KeyTab:
		m.adjustField = 1 - m.adjustField
		if m.adjustField == 0 {
			m.adjustQty.Focus()
			m.adjustNotes.Blur()
		} else {
			m.adjustQty.Blur()
			m.adjustNotes.Focus()
		}
		return m, nil

	case tea.KeyEnter:
		qty, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(m.adjustQty.Value()), "+"))
		if err != nil || qty == 0 {
			m.status = "quantity must be a non-zero integer"
			return m, nil
		}
		p := m.products[m.selected]
		m.overlay = overlayNone
		m.adjustQty.Blur()
		m.adjustNotes.Blur()
		m.loading = true
		m.log.Info("adjusting stock",
			zap.String("product", p.ID),
			zap.Int("quantity", qty),
			zap.String("reason", adjustReasons[m.reasonSel]))
		return m, tea.Batch(
			m.doAdjust(p.ID, qty, adjustReasons[m.reasonSel], m.adjustNotes.Value()),
			m.spinner.Tick,
		)
	}

	var cmd tea.Cmd
	if m.adjustField == 0 {
		m.adjustQty, cmd = m.adjustQty.Update(msg)
	} else {
		m.adjustNotes, cmd = m.adjustNotes.Update(msg)
	}
	return m, cmd
}

func (m Model) handleVoidKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.overlay = overlayNone
	if msg.String() == "y" {
		s := m.sales[m.selected]
		m.loading = true
		return m, tea.Batch(m.doVoid(s.ID), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) handleNewUserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	roleRow := len(m.userInputs) // the field after the text inputs

	switch msg.Type {
	case tea.KeyEsc:
		m.overlay = overlayNone
		for i := range m.userInputs {
			m.userInputs[i].Blur()
		}
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		return m.focusUserField(m.userField + 1), nil

	case tea.KeyShiftTab, tea.KeyUp:
		return m.focusUserField(m.userField - 1), nil

	case tea.KeyLeft, tea.KeyRight:
		if m.userField == roleRow {
			n := len(userRoles)
			if msg.Type == tea.KeyLeft {
				m.roleSel = (m.roleSel + n - 1) % n
			} else {
				m.roleSel = (m.roleSel + 1) % n
			}
			return m, nil
		}

	case tea.KeyEnter:
		if m.userField < roleRow {
			return m.focusUserField(m.userField + 1), nil
		}
		in := api.UserCreate{
			Username: strings.TrimSpace(m.userInputs[0].Value()),
			FullName: strings.TrimSpace(m.userInputs[1].Value()),
			Password: m.userInputs[2].Value(),
			PinCode:  m.userInputs[3].Value(),
			Role:     userRoles[m.roleSel],
		}
		if in.Username == "" || in.Password == "" {
			m.status = "username and password are required"
			return m, nil
		}
		m.overlay = overlayNone
		m.loading = true
		return m, tea.Batch(m.doCreateUser(in), m.spinner.Tick)
	}

	if m.userField < roleRow {
		var cmd tea.Cmd
		m.userInputs[m.userField], cmd = m.userInputs[m.userField].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) focusUserField(i int) Model {
	last := len(m.userInputs) // role row index
	if i < 0 {
		i = 0
	}
	if i > last {
		i = last
	}
	for j := range m.userInputs {
		if j == i {
			m.userInputs[j].Focus()
		} else {
			m.userInputs[j].Blur()
		}
	}
	m.userField = i
	return m
}

func (m Model) listLen() int {
	switch m.tab {
	case tabSales:
		return len(m.sales)
	case tabUsers:
		return len(m.users)
	case tabReport:
		return 0
	default:
		return len(m.products)
	}
}

func (m *Model) clampSelection(n int) {
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 && n > 0 {
		m.selected = 0
	}
}

func errText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
