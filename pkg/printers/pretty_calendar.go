package printers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/fatih/color"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/record"
)

// GridStyles controls how the month grid is drawn.
type GridStyles struct {
	Header   lipgloss.Style
	Weekdays lipgloss.Style
	Dim      lipgloss.Style
	Day      lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Status   map[record.Status]lipgloss.Style
	Frame    lipgloss.Style
}

// DefaultGridStyles returns the colored styles, or unstyled ones when color
// output is disabled.
func DefaultGridStyles() GridStyles {
	if color.NoColor {
		plain := lipgloss.NewStyle()
		return GridStyles{
			Header: plain, Weekdays: plain, Dim: plain, Day: plain,
			Today: plain, Selected: plain, Frame: plain,
			Status: map[record.Status]lipgloss.Style{},
		}
	}
	return GridStyles{
		Header:   lipgloss.NewStyle().Bold(true),
		Weekdays: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Dim:      lipgloss.NewStyle().Faint(true),
		Day:      lipgloss.NewStyle(),
		Today:    lipgloss.NewStyle().Underline(true).Bold(true),
		Selected: lipgloss.NewStyle().Reverse(true),
		Status: map[record.Status]lipgloss.Style{
			record.StatusDraft:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			record.StatusReady:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			record.StatusPosted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		},
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// cellWidth fits "dd BT·": day number, badge and status mark.
const cellWidth = 6

// Calendar draws the six week grid of month.
func (pp *PrettyPrint) Calendar(month calendar.MonthKey, cells []app.DayCell) {
	_, _ = fmt.Fprintln(pp.out(), RenderGrid(month, cells, DefaultGridStyles()))
}

// RenderGrid renders cells as a framed Sunday-first grid.
func RenderGrid(month calendar.MonthKey, cells []app.DayCell, st GridStyles) string {
	var header []string
	for _, wd := range weekdayShort {
		header = append(header, lipgloss.NewStyle().Width(cellWidth).Render(wd[:2]))
	}

	lines := []string{
		st.Header.Render(month.Label()),
		st.Weekdays.Render(strings.Join(header, " ")),
	}
	for row := 0; row*7 < len(cells); row++ {
		var rendered []string
		for col := 0; col < 7 && row*7+col < len(cells); col++ {
			rendered = append(rendered, renderCell(cells[row*7+col], st))
		}
		lines = append(lines, strings.Join(rendered, " "))
	}
	return st.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderCell(c app.DayCell, st GridStyles) string {
	num := fmt.Sprintf("%2d", c.Day)
	if c.Dim {
		return st.Dim.Width(cellWidth).Render(num)
	}

	style := st.Day
	if c.Today {
		style = style.Inherit(st.Today)
	}
	if c.Selected {
		style = style.Inherit(st.Selected)
	}
	text := style.Render(num)

	if c.Record != nil {
		status := c.Record.Status
		if status == "" {
			status = record.StatusDraft
		}
		badge := Badge(c.Record.Category) + statusMarks[status]
		if s, ok := st.Status[status]; ok {
			badge = s.Render(badge)
		}
		text += " " + badge
	}
	return lipgloss.NewStyle().Width(cellWidth).Render(text)
}
