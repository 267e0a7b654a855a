package sidebar

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"

	"aprsmap/location"
)

// Model holds the sidebar's state
type Model struct {
	width    int
	height   int
	stations []location.Entry // Most recent first
	now      func() time.Time
}

// New creates a new sidebar model
func New() Model {
	return Model{
		width:  20, // Default
		height: 24, // Default
		now:    time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetStations replaces the list of heard stations.
func (m *Model) SetStations(entries []location.Entry) {
	m.stations = entries
}

// maxLines is how many stations fit: two lines each, inside the border
// and below the header.
func (m Model) maxLines() int {
	n := (m.height - 3) / 2
	if n < 1 {
		n = 1
	}
	return n
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// describe renders the second line for a station: age and distance.
func (m Model) describe(e location.Entry) string {
	age := humanize.RelTime(e.Updated, m.now(), "ago", "from now")
	if e.HasDistance {
		return fmt.Sprintf("%s, %.0fkm", age, e.DistanceKm)
	}
	return age
}

// Lines returns the station list as shown, without styling.
func (m Model) Lines() []string {
	textWidth := m.width - 2 - 2 // -2 border, -2 padding
	if textWidth < 1 {
		textWidth = 1
	}

	var lines []string
	for i, e := range m.stations {
		if i >= m.maxLines() {
			break
		}
		lines = append(lines,
			fmt.Sprintf("%.*s", textWidth, e.Callsign),
			fmt.Sprintf(" %.*s", textWidth-1, m.describe(e)),
		)
	}
	return lines
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).   // -2 for border
		Height(m.height - 2). // -2 for border
		Padding(0, 1)

	header := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Width(m.width - 2 - 2). // -2 border, -2 padding
		Render("Stations Heard")

	// The box must not grow vertically, so the content is built to fit.
	var b strings.Builder
	b.WriteString(header)
	for _, line := range m.Lines() {
		b.WriteRune('\n')
		b.WriteString(line)
	}
	return style.Render(b.String())
}
