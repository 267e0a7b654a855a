package header

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the header's state
type Model struct {
	width int
	freq  int64 // Hz
	band  string
}

// New creates a header showing the dial frequency and its band.
func New(freq int64, band string) Model {
	return Model{
		width: 80, // Default width, will be updated
		freq:  freq,
		band:  band,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width // Just store the width
	}
	return m, nil
}

// Title is the text shown in the bar.
func (m Model) Title() string {
	title := "aprsmap"
	if m.freq > 0 {
		title += fmt.Sprintf(" · %.3f MHz", float64(m.freq)/1e6)
	}
	if m.band != "" {
		title += " (" + m.band + ")"
	}
	return title
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("63")). // Purple background (matches map border)
		Foreground(lipgloss.Color("255")).
		Width(m.width).
		Align(lipgloss.Center)

	return style.Render(m.Title())
}
