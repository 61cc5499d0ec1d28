package admin

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
	return New(client, config.DefaultConfig(), catalog.User{Username: "root", Role: "admin"}, zap.NewNop())
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestTabCyclesThroughAllTabs(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, tabProducts, m.tab)

	want := []tab{tabSales, tabReport, tabUsers, tabProducts}
	for _, w := range want {
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(Model)
		require.Equal(t, w, m.tab)
		require.NotNil(t, cmd) // each tab reloads its data
		require.True(t, m.loading)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	require.Equal(t, tabUsers, m.tab)
}

func TestProductsMessagePopulatesAndSelects(t *testing.T) {
	m := newTestModel(t)
	m.loading = true

	next, _ := m.Update(productsMsg{products: []catalog.Product{
		{ID: "p1", Name: "Pan", Stock: 5},
		{ID: "p2", Name: "Leche 1L", Stock: 40},
	}})
	m = next.(Model)

	require.False(t, m.loading)
	require.Len(t, m.products, 2)
	require.Equal(t, 0, m.selected)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	require.Equal(t, 1, m.selected)
}

func TestAdjustModalRejectsZeroAndSubmitsValidQuantity(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(productsMsg{products: []catalog.Product{
		{ID: "p1", Name: "Pan", Stock: 5},
	}})
	m = next.(Model)

	next, _ = m.Update(key('s'))
	m = next.(Model)
	require.Equal(t, overlayAdjust, m.overlay)

	m.adjustQty.SetValue("0")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.Nil(t, cmd)
	require.Equal(t, overlayAdjust, m.overlay)
	require.Contains(t, m.status, "non-zero")

	// Down cycles the reason before submitting.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	require.Equal(t, 1, m.reasonSel)

	m.adjustQty.SetValue("+10")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	require.Equal(t, overlayNone, m.overlay)
	require.True(t, m.loading)
}

func TestAdjustModalEscapeCancels(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(productsMsg{products: []catalog.Product{{ID: "p1", Name: "Pan"}}})
	m = next.(Model)

	next, _ = m.Update(key('s'))
	m = next.(Model)
	require.Equal(t, overlayAdjust, m.overlay)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	require.Nil(t, cmd)
	require.Equal(t, overlayNone, m.overlay)
}

func TestVoidNeedsExplicitConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.tab = tabSales
	next, _ := m.Update(salesMsg{sales: []catalog.Sale{{ID: "s1", Total: 116.00}}})
	m = next.(Model)

	next, _ = m.Update(key('v'))
	m = next.(Model)
	require.Equal(t, overlayVoid, m.overlay)

	// Anything but y cancels.
	next, cmd := m.Update(key('n'))
	m = next.(Model)
	require.Nil(t, cmd)
	require.Equal(t, overlayNone, m.overlay)
	require.False(t, m.loading)

	next, _ = m.Update(key('v'))
	m = next.(Model)
	next, cmd = m.Update(key('y'))
	m = next.(Model)
	require.NotNil(t, cmd)
	require.Equal(t, overlayNone, m.overlay)
	require.True(t, m.loading)
}

func TestAdjustKeyIgnoredWithoutSelection(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(key('s'))
	m = next.(Model)
	require.Equal(t, overlayNone, m.overlay)
}
