package sidebar

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"aprsmap/location"
)

func TestLines(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := New()
	m.now = func() time.Time { return now }
	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 24})

	m.SetStations([]location.Entry{
		{Callsign: "N0CALL-9", Updated: now.Add(-5 * time.Minute), DistanceKm: 12.3, HasDistance: true},
		{Callsign: "K1ABC", Updated: now.Add(-2 * time.Hour)},
	})

	assert.Equal(t, []string{
		"N0CALL-9",
		" 5 minutes ago, 12km",
		"K1ABC",
		" 2 hours ago",
	}, m.Lines())
}

func TestLinesFitHeight(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 7})

	entries := make([]location.Entry, 10)
	for i := range entries {
		entries[i] = location.Entry{Callsign: "N0CALL", Updated: time.Now()}
	}
	m.SetStations(entries)

	assert.Len(t, m.Lines(), 4)
}
