// Package pos implements the cashier screen: scan or search products into the
// cart, edit lines, take payment, submit the sale. The screen is split across
// files the usual way:
//   - model.go: types, construction, Init
//   - update.go: message routing and key handling
//   - view.go: rendering
//   - commands.go: async API calls as tea.Cmds
package pos

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"till/cmd/till/ui"
	"till/internal/api"
	"till/internal/cart"
	"till/internal/catalog"
	"till/internal/config"
	"till/internal/scanner"
)

// focus is which part of the screen owns the keyboard.
type focus int

const (
	focusCart focus = iota
	focusSearch
	focusWeight
	focusPayment
	focusHelp
	focusDiscount
	focusReceipt
)

// Model is the cashier screen model.
type Model struct {
	client *api.Client
	cfg    *config.Config
	log    *zap.Logger
	styles ui.Styles

	cart *cart.Cart
	dec  *scanner.Decoder
	user catalog.User

	focus    focus
	selected int // selected cart line

	search      textinput.Model
	results     []catalog.Product
	resultSel   int
	showResults bool

	// Weight prompt state: the scanned product waiting for a kilogram amount.
	weightInput   textinput.Model
	pendingWeight *catalog.Product

	discountInput textinput.Model

	// Payment overlay state.
	payMethod string
	cashInput textinput.Model

	spinner  spinner.Model
	loading  bool
	status   string
	errNote  string
	lastSale *catalog.Sale

	// Monotonic id for barcode lookups. Responses tagged with an older id
	// are dropped, so a stale lookup can never overwrite a newer scan.
	lookupSeq int

	helpView string

	width  int
	height int
}

// New builds the cashier screen.
func New(client *api.Client, cfg *config.Config, user catalog.User, log *zap.Logger) Model {
	styles := ui.DefaultStyles()

	search := textinput.New()
	search.Placeholder = "scan or search…"
	search.CharLimit = 64
	search.Width = 32

	weight := textinput.New()
	weight.Placeholder = "0.000"
	weight.CharLimit = 8
	weight.Width = 10

	discount := textinput.New()
	discount.Placeholder = "0"
	discount.CharLimit = 5
	discount.Width = 6

	cash := textinput.New()
	cash.Placeholder = "0.00"
	cash.CharLimit = 10
	cash.Width = 12

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Accent

	return Model{
		client: client,
		cfg:    cfg,
		log:    log,
		styles: styles,
		cart:   cart.New(cfg.Store.TaxRate),
		dec: scanner.New(
			scanner.WithIdleTimeout(cfg.ScannerIdleTimeout()),
			scanner.WithMinLength(cfg.Scanner.MinLength),
		),
		user:          user,
		selected:      -1,
		search:        search,
		weightInput:   weight,
		discountInput: discount,
		cashInput:     cash,
		payMethod:     catalog.PayCash,
		spinner:       sp,
	}
}

// Init arms the barcode decoder for this screen.
func (m Model) Init() tea.Cmd {
	m.dec.Attach()
	return m.spinner.Tick
}

// Close releases the decoder. Call on program exit.
func (m Model) Close() {
	m.dec.Detach()
}

// source maps the current focus to the decoder's view of the keystroke
// target. Only the search box is barcode-aware; the numeric prompts are
// plain text fields the decoder must ignore.
func (m Model) source() scanner.Source {
	switch m.focus {
	case focusSearch:
		return scanner.SourceBarcodeField
	case focusWeight, focusPayment, focusDiscount:
		return scanner.SourceTextField
	default:
		return scanner.SourceScreen
	}
}

const lookupTimeout = 5 * time.Second
