// Package kiosk implements the customer-facing price checker: a full screen
// idle prompt that shows name and price for a few seconds after each scan.
// It talks to the unauthenticated price-check endpoint only.
package kiosk

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"till/cmd/till/ui"
	"till/internal/api"
	"till/internal/catalog"
	"till/internal/config"
	"till/internal/scanner"
)

// resetAfter is how long a result stays on screen before the kiosk returns
// to the idle prompt.
const resetAfter = 6 * time.Second

const lookupTimeout = 5 * time.Second

type checkResultMsg struct {
	seq    int
	code   string
	result *catalog.PriceCheckResult
	err    error
}

type resetMsg struct{ seq int }

// Model is the kiosk screen model.
type Model struct {
	client *api.Client
	cfg    *config.Config
	log    *zap.Logger
	styles ui.Styles

	dec *scanner.Decoder

	result   *catalog.PriceCheckResult
	notFound string // barcode that had no match
	seq      int

	width  int
	height int
}

// New builds the kiosk screen.
func New(client *api.Client, cfg *config.Config, log *zap.Logger) Model {
	return Model{
		client: client,
		cfg:    cfg,
		log:    log,
		styles: ui.DefaultStyles(),
		dec: scanner.New(
			scanner.WithIdleTimeout(cfg.ScannerIdleTimeout()),
			scanner.WithMinLength(cfg.Scanner.MinLength),
		),
	}
}

func (m Model) Init() tea.Cmd {
	m.dec.Attach()
	return nil
}

// Close releases the decoder.
func (m Model) Close() {
	m.dec.Detach()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case checkResultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.result = nil
			m.notFound = msg.code
			m.log.Debug("price check failed", zap.String("code", msg.code), zap.Error(msg.err))
		} else {
			m.result = msg.result
			m.notFound = ""
		}
		seq := m.seq
		return m, tea.Tick(resetAfter, func(time.Time) tea.Msg { return resetMsg{seq: seq} })

	case resetMsg:
		// A newer scan restarts the display window; only the latest tick
		// clears the screen.
		if msg.seq == m.seq {
			m.result = nil
			m.notFound = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Close()
			return m, tea.Quit
		}
		// Scanner bursts may arrive coalesced into one multi-rune KeyMsg.
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				m.dec.Rune(r, scanner.SourceScreen)
			}
		}
		if msg.Type == tea.KeyEnter {
			if code, ok := m.dec.Enter(scanner.SourceScreen); ok {
				m.seq++
				return m, m.check(m.seq, code)
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) check(seq int, code string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		res, err := client.PriceCheck(ctx, code)
		return checkResultMsg{seq: seq, code: code, result: res, err: err}
	}
}

func (m Model) View() string {
	var body string

	switch {
	case m.result != nil:
		body = m.viewResult(*m.result)
	case m.notFound != "":
		body = m.styles.Error.Render("Product not found") + "\n\n" +
			m.styles.Muted.Render("Please ask a member of staff.")
	default:
		body = m.styles.Title.Render(m.cfg.Store.Name) + "\n\n" +
			m.styles.Body.Render("Scan an item to see its price")
	}

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func (m Model) viewResult(r catalog.PriceCheckResult) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(r.Name))
	b.WriteString("\n")
	b.WriteString(m.styles.BigPrice.Render(fmt.Sprintf("$%.2f", r.Price)))
	switch {
	case r.SellByWeight:
		b.WriteString("\n" + m.styles.Muted.Render("per kg"))
	case r.Pack != nil:
		b.WriteString("\n" + m.styles.Muted.Render(
			fmt.Sprintf("pack of %d · $%.2f each", r.Pack.Units, r.UnitPrice)))
	}
	return b.String()
}
