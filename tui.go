package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"aprsmap/config"
	"aprsmap/location"
	"aprsmap/packet"
	"aprsmap/ui/footer"
	"aprsmap/ui/header"
	mapview "aprsmap/ui/map"
	"aprsmap/ui/msgbar"
	"aprsmap/ui/sidebar"
)

// --- Constants for Layout ---
const (
	sidebarWidth = 20
	msgbarHeight = 7
)

const (
	refreshInterval = 30 * time.Second
	stationMaxAge   = 2 * time.Hour
)

type refreshMsg time.Time

// model holds the application's state
type model struct {
	width  int
	height int

	headerModel  header.Model
	mapModel     mapview.Model
	msgbarModel  msgbar.Model
	footerModel  footer.Model
	sidebarModel sidebar.Model

	registry *location.Registry
	reports  <-chan *packet.Report

	err error
}

// initialModel creates the starting model
func initialModel(conf config.Config, band string, registry *location.Registry, reports <-chan *packet.Report) model {
	mapMod, err := mapview.New(conf.Map.Shapefile, conf)
	if err != nil {
		return model{err: err, reports: reports}
	}

	footerMod := footer.New(conf.Map.Shapefile)
	footerMod.SetZoom(mapMod.GetZoomLevel())

	return model{
		width:        80, // Default width
		height:       60, // Default height
		headerModel:  header.New(conf.Radio.Frequency, band),
		mapModel:     mapMod,
		msgbarModel:  msgbar.New(),
		footerModel:  footerMod,
		sidebarModel: sidebar.New(),
		registry:     registry,
		reports:      reports,
	}
}

// listenForReports is a tea.Cmd that waits for the next decoded record
func (m model) listenForReports() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.reports
		if !ok {
			return fmt.Errorf("connection closed")
		}
		return r
	}
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m *model) refreshStations() {
	if m.registry != nil {
		m.sidebarModel.SetStations(m.registry.Snapshot())
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.listenForReports(), refreshCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	var (
		headerCmd  tea.Cmd
		mapCmd     tea.Cmd
		msgbarCmd  tea.Cmd
		footerCmd  tea.Cmd
		sidebarCmd tea.Cmd
		cmds       []tea.Cmd
	)

	switch msg := msg.(type) {
	case *packet.Report:
		m.mapModel, mapCmd = m.mapModel.Update(msg)
		m.msgbarModel, msgbarCmd = m.msgbarModel.Update(msg)
		m.footerModel.SetLastPacket(msg.Source)
		m.refreshStations()
		cmds = append(cmds, mapCmd, msgbarCmd, m.listenForReports())

	case refreshMsg:
		if n := m.registry.Expire(stationMaxAge); n > 0 {
			log.Debug("Expired stale stations", "count", n)
		}
		m.refreshStations()
		cmds = append(cmds, refreshCmd())

	case error:
		m.err = msg
		log.Error("Error received in Update", "err", msg)
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 1
		footerHeight := 1
		mainHeight := max(m.height-headerHeight-msgbarHeight-footerHeight, 1)
		mapWidth := m.width - sidebarWidth

		m.headerModel, headerCmd = m.headerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: headerHeight})
		m.sidebarModel, sidebarCmd = m.sidebarModel.Update(tea.WindowSizeMsg{Width: sidebarWidth, Height: mainHeight})
		m.mapModel, mapCmd = m.mapModel.Update(tea.WindowSizeMsg{Width: mapWidth, Height: mainHeight})
		m.msgbarModel, msgbarCmd = m.msgbarModel.Update(tea.WindowSizeMsg{Width: m.width, Height: msgbarHeight})
		m.footerModel, footerCmd = m.footerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: footerHeight})

		cmds = append(cmds, headerCmd, sidebarCmd, mapCmd, msgbarCmd, footerCmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		default:
			m.mapModel, mapCmd = m.mapModel.Update(msg)
			cmds = append(cmds, mapCmd)
			m.footerModel.SetZoom(m.mapModel.GetZoomLevel())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Border(lipgloss.DoubleBorder(), true).
			BorderForeground(lipgloss.Color("9")).
			Padding(1).
			Align(lipgloss.Center, lipgloss.Center)
		return errorStyle.Render(
			"Error:\n\n" + m.err.Error() +
				"\n\nPress any key to quit.",
		)
	}

	middleStack := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebarModel.View(),
		m.mapModel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerModel.View(),
		middleStack,
		m.msgbarModel.View(),
		m.footerModel.View(),
	)
}
