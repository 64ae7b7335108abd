package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/trippay/reimburse/internal/calculation"
	"github.com/trippay/reimburse/internal/domain"
)

// keyMap defines the explorer key bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Decr   key.Binding
	Incr   key.Binding
	Coarse key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var defaultKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous parameter"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next parameter"),
	),
	Decr: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "decrease"),
	),
	Incr: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "increase"),
	),
	Coarse: key.NewBinding(
		key.WithKeys("shift+left", "shift+right"),
		key.WithHelp("shift+←/→", "adjust by 10 steps"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Decr, k.Incr, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Decr, k.Incr, k.Coarse},
		{k.Help, k.Quit},
	}
}

// Model is the explorer application state: three trip-input sliders and the
// engine that recomputes the reimbursement on every change. Nudging a slider
// across a rule boundary makes the dispatch visible, which is exactly what
// recalibration work needs when probing thresholds.
type Model struct {
	engine  *calculation.Engine
	sliders []*slider
	focused int
	keys    keyMap
	help    help.Model
	width   int
	height  int
}

// Slider positions.
const (
	sliderDays = iota
	sliderMiles
	sliderReceipts
)

// NewModel creates an explorer around an engine.
func NewModel(engine *calculation.Engine) Model {
	sliders := []*slider{
		newSlider("Trip duration", 3, 1, 30, 1).withUnit(" days"),
		newSlider("Miles traveled", 200, 0, 2000, 10).withUnit(" mi"),
		newSlider("Receipts", 250, 0, 3000, 5).withUnit("").withFormat("$%.2f"),
	}
	sliders[0].focused = true

	return Model{
		engine:  engine,
		sliders: sliders,
		keys:    defaultKeys,
		help:    help.New(),
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Up):
			m.focus(m.focused - 1)
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.focus(m.focused + 1)
			return m, nil

		case key.Matches(msg, m.keys.Coarse):
			if msg.String() == "shift+left" {
				m.sliders[m.focused].decrement(10)
			} else {
				m.sliders[m.focused].increment(10)
			}
			return m, nil

		case key.Matches(msg, m.keys.Decr):
			m.sliders[m.focused].decrement(1)
			return m, nil

		case key.Matches(msg, m.keys.Incr):
			m.sliders[m.focused].increment(1)
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) focus(index int) {
	if index < 0 {
		index = len(m.sliders) - 1
	}
	if index >= len(m.sliders) {
		index = 0
	}
	m.sliders[m.focused].focused = false
	m.focused = index
	m.sliders[m.focused].focused = true
}

// trip builds the TripInput the sliders currently describe.
func (m Model) trip() domain.TripInput {
	return domain.TripInput{
		DurationDays:   int(m.sliders[sliderDays].value),
		MilesTraveled:  int(m.sliders[sliderMiles].value),
		ReceiptsAmount: decimal.NewFromFloat(m.sliders[sliderReceipts].value).Round(2),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Reimbursement Explorer"))
	b.WriteString("\n")

	for _, s := range m.sliders {
		b.WriteString(s.render())
		b.WriteString("\n\n")
	}

	trip := m.trip()
	amount, rule := m.engine.Explain(trip)

	result := fmt.Sprintf("%s  %s\n%s",
		resultStyle.Render("Reimbursement"),
		resultStyle.Render("$"+amount.StringFixed(2)),
		ruleStyle.Render(fmt.Sprintf("rule: %s   miles/day: %s   receipts/day: $%s",
			rule,
			trip.MilesPerDay().StringFixed(1),
			trip.ReceiptsPerDay().StringFixed(2))))
	b.WriteString(panelStyle.Render(result))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
