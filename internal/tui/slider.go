package tui

import (
	"fmt"
	"math"
	"strings"
)

// slider is an adjustable numeric parameter with a visual bar. The explorer
// uses one per trip input.
type slider struct {
	label   string
	value   float64
	min     float64
	max     float64
	step    float64
	unit    string
	format  string
	width   int
	focused bool
}

func newSlider(label string, value, min, max, step float64) *slider {
	return &slider{
		label:  label,
		value:  value,
		min:    min,
		max:    max,
		step:   step,
		format: "%.0f",
		width:  40,
	}
}

func (s *slider) withUnit(unit string) *slider {
	s.unit = unit
	return s
}

func (s *slider) withFormat(format string) *slider {
	s.format = format
	return s
}

// increment moves the value up by n steps, clamping at max.
func (s *slider) increment(n int) {
	s.set(s.value + float64(n)*s.step)
}

// decrement moves the value down by n steps, clamping at min.
func (s *slider) decrement(n int) {
	s.set(s.value - float64(n)*s.step)
}

func (s *slider) set(value float64) {
	s.value = math.Max(s.min, math.Min(s.max, value))
}

func (s *slider) percentage() float64 {
	if s.max == s.min {
		return 0
	}
	return (s.value - s.min) / (s.max - s.min)
}

// render draws the label, current value, and bar.
func (s *slider) render() string {
	var b strings.Builder

	label := labelStyle
	value := valueStyle
	thumb := thumbStyle
	if s.focused {
		label = label.Foreground(colorPrimary)
		thumb = thumb.Foreground(colorAccent)
	}

	valueText := fmt.Sprintf(s.format, s.value) + s.unit
	b.WriteString(label.Render(s.label))
	b.WriteString("  ")
	b.WriteString(value.Render(valueText))
	b.WriteString("\n")

	filled := int(math.Round(float64(s.width) * s.percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > s.width {
		filled = s.width
	}

	b.WriteString("[")
	if filled > 1 {
		b.WriteString(thumb.Render(strings.Repeat("━", filled-1)))
	}
	b.WriteString(thumb.Render("●"))
	if empty := s.width - filled; empty > 1 {
		b.WriteString(trackStyle.Render(strings.Repeat("─", empty-1)))
	}
	b.WriteString("]")

	return b.String()
}
