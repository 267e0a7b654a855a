package msgbar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aprsmap/packet"
)

const (
	barHeight = 7 // Total height of the component (including border)
)

// Model holds the record bar's state
type Model struct {
	width   int
	height  int
	records []string // Formatted records, newest first
}

// New creates a new record bar model
func New() Model {
	return Model{
		width:  80,
		height: barHeight,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Format renders one decoded record as a single line, e.g.
// N0CALL-9>APRS,WIDE2-1: 49.0583,-72.0292 > 120m [Kenwood TH-D72] comment
func Format(r *packet.Report) string {
	var b strings.Builder
	b.WriteString(r.Source + ">" + r.Destination)
	for _, p := range r.Path {
		b.WriteString("," + p)
	}
	b.WriteString(":")

	if lat, lon, ok := r.Position(); ok {
		fmt.Fprintf(&b, " %.4f,%.4f", lat, lon)
	}
	if r.Symbol != "" {
		b.WriteString(" " + r.Symbol)
	}
	if r.Altitude != nil {
		fmt.Fprintf(&b, " %dm", *r.Altitude)
	}
	if r.Device != nil && r.Device.Known() {
		fmt.Fprintf(&b, " [%s %s]", r.Device.Manufacturer, r.Device.Model)
	}
	if c := r.CommentText(); c != "" {
		b.WriteString(" " + c)
	}
	return b.String()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = barHeight

	case *packet.Report:
		m.records = append([]string{Format(msg)}, m.records...)

		maxRecords := barHeight - 2 // -2 for borders
		if len(m.records) > maxRecords {
			m.records = m.records[:maxRecords]
		}
	}
	return m, nil
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")). // Purple
		Width(m.width - 2).                     // -2 for border
		Height(m.height - 2).                   // -2 for border
		Padding(0, 1)

	contentWidth := m.width - 2 - 2 // -border, -padding
	if contentWidth < 0 {
		contentWidth = 0
	}
	numLines := m.height - 2
	if numLines < 0 {
		numLines = 0
	}

	// Oldest at the top so records read in arrival order.
	var b strings.Builder
	for i := 0; i < numLines; i++ {
		if i < len(m.records) {
			line := m.records[len(m.records)-1-i]
			if len(line) > contentWidth {
				line = line[:contentWidth]
			}
			b.WriteString(line)
		}
		if i < numLines-1 {
			b.WriteRune('\n')
		}
	}

	return style.Render(b.String())
}
