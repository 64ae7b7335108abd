package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippay/reimburse/internal/calculation"
)

func newTestModel() Model {
	return NewModel(calculation.NewEngine(nil))
}

func TestNewModel_Defaults(t *testing.T) {
	m := newTestModel()

	require.Len(t, m.sliders, 3)
	assert.True(t, m.sliders[sliderDays].focused)
	assert.Equal(t, 3.0, m.sliders[sliderDays].value)
	assert.Equal(t, 200.0, m.sliders[sliderMiles].value)
	assert.Equal(t, 250.0, m.sliders[sliderReceipts].value)
}

func TestModel_Trip(t *testing.T) {
	m := newTestModel()
	trip := m.trip()

	assert.Equal(t, 3, trip.DurationDays)
	assert.Equal(t, 200, trip.MilesTraveled)
	assert.Equal(t, "250.00", trip.ReceiptsAmount.StringFixed(2))
	require.NoError(t, trip.Validate())
}

func TestModel_FocusWraps(t *testing.T) {
	m := newTestModel()

	m.focus(m.focused + 1)
	assert.Equal(t, sliderMiles, m.focused)

	m.focus(m.focused + 2)
	assert.Equal(t, sliderDays, m.focused, "Expected focus to wrap past the last slider")

	m.focus(m.focused - 1)
	assert.Equal(t, sliderReceipts, m.focused, "Expected focus to wrap before the first slider")
	assert.True(t, m.sliders[sliderReceipts].focused)
	assert.False(t, m.sliders[sliderDays].focused)
}

func TestModel_UpdateAdjustsFocusedSlider(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)
	assert.Equal(t, 4.0, m.sliders[sliderDays].value)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	assert.Equal(t, 3.0, m.sliders[sliderDays].value)
}

func TestModel_UpdateQuit(t *testing.T) {
	m := newTestModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_View(t *testing.T) {
	m := newTestModel()
	view := m.View()

	assert.Contains(t, view, "Reimbursement Explorer")
	assert.Contains(t, view, "Trip duration")
	assert.Contains(t, view, "Miles traveled")
	assert.Contains(t, view, "Receipts")
	assert.Contains(t, view, "rule:")
}
