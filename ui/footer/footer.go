package footer

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the footer's state
type Model struct {
	width      int
	mapName    string
	zoom       float64
	lastPacket string
	decoded    int
}

// New creates a footer naming the basemap file.
func New(mapShapePath string) Model {
	return Model{
		width:   80,
		mapName: filepath.Base(mapShapePath),
		zoom:    1,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetZoom records the map's current zoom level.
func (m *Model) SetZoom(z float64) {
	m.zoom = z
}

// SetLastPacket records the source of the latest decoded frame.
func (m *Model) SetLastPacket(callsign string) {
	m.lastPacket = callsign
	m.decoded++
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// Status is the text shown in the bar.
func (m Model) Status() string {
	last := m.lastPacket
	if last == "" {
		last = "-"
	}
	return fmt.Sprintf(" Last: %s | Decoded: %d | Zoom: %.1fx | %s | q to quit",
		last, m.decoded, m.zoom, m.mapName)
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Width(m.width)

	return style.Render(m.Status())
}
