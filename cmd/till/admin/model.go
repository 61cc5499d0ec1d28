// Package admin implements the back-office screen: product and stock
// management, the sales ledger with voiding, the daily report, and operator
// accounts. Admin and manager roles only.
package admin

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"till/cmd/till/ui"
	"till/internal/api"
	"till/internal/catalog"
	"till/internal/config"
)

type tab int

const (
	tabProducts tab = iota
	tabSales
	tabReport
	tabUsers
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabProducts:
		return "Products"
	case tabSales:
		return "Sales"
	case tabReport:
		return "Report"
	case tabUsers:
		return "Users"
	}
	return "?"
}

// overlay is a modal prompt layered over the active tab.
type overlay int

const (
	overlayNone overlay = iota
	overlaySearch
	overlayAdjust
	overlayVoid
	overlayNewUser
)

// Stock adjustment reasons accepted by the server.
var adjustReasons = []string{"restock", "damage", "recount", "sale_correction"}

// Operator roles.
var userRoles = []string{"cashier", "manager", "admin"}

// Model is the back-office screen model.
type Model struct {
	client *api.Client
	cfg    *config.Config
	log    *zap.Logger
	styles ui.Styles
	user   catalog.User

	tab      tab
	overlay  overlay
	selected int

	products []catalog.Product
	sales    []catalog.Sale
	report   *catalog.DailySummary
	users    []catalog.User

	reportDate time.Time

	search      textinput.Model
	adjustQty   textinput.Model
	adjustNotes textinput.Model
	adjustField int // 0 qty, 1 notes
	reasonSel   int

	userInputs []textinput.Model // username, full name, password, pin
	userField  int
	roleSel    int

	spinner spinner.Model
	loading bool
	status  string
	errNote string

	width  int
	height int
}

// New builds the back-office screen.
func New(client *api.Client, cfg *config.Config, user catalog.User, log *zap.Logger) Model {
	styles := ui.DefaultStyles()

	search := textinput.New()
	search.Placeholder = "name or barcode"
	search.CharLimit = 64
	search.Width = 32

	qty := textinput.New()
	qty.Placeholder = "+10 or -3"
	qty.CharLimit = 6
	qty.Width = 8

	notes := textinput.New()
	notes.Placeholder = "notes"
	notes.CharLimit = 80
	notes.Width = 32

	labels := []string{"username", "full name", "password", "pin"}
	inputs := make([]textinput.Model, len(labels))
	for i, l := range labels {
		in := textinput.New()
		in.Placeholder = l
		in.CharLimit = 64
		in.Width = 24
		if l == "password" || l == "pin" {
			in.EchoMode = textinput.EchoPassword
		}
		inputs[i] = in
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Accent

	return Model{
		client:      client,
		cfg:         cfg,
		log:         log,
		styles:      styles,
		user:        user,
		selected:    -1,
		reportDate:  time.Now(),
		search:      search,
		adjustQty:   qty,
		adjustNotes: notes,
		userInputs:  inputs,
		spinner:     sp,
	}
}

// Init loads the products tab.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadProducts(""), m.spinner.Tick)
}
