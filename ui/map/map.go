package mapview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/jonas-p/go-shp"

	"aprsmap/config"
	"aprsmap/location"
	"aprsmap/packet"
)

// Constants for Panning and Zooming
const (
	panFactor  = 0.1
	zoomFactor = 1.2
)

// station is one plotted position.
type station struct {
	callsign string
	lat, lon float64
	marker   rune
}

// Model holds the map's state
type Model struct {
	width  int
	height int

	polygons       []*shp.Polygon
	originalBounds shp.Box
	viewBounds     shp.Box

	home       *station
	stations   []station
	stationIdx map[string]int
}

// loadMapData reads every polygon in the shapefile and their overall bounds.
func loadMapData(path string) ([]*shp.Polygon, shp.Box, error) {
	shapeFile, err := shp.Open(path)
	if err != nil {
		return nil, shp.Box{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shapeFile.Close()

	var polygons []*shp.Polygon
	var boxes []shp.Box
	for shapeFile.Next() {
		_, shape := shapeFile.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		polygons = append(polygons, polygon)
		boxes = append(boxes, polygon.BBox())
	}

	if len(polygons) == 0 {
		return nil, shp.Box{}, fmt.Errorf("no polygons found in shapefile")
	}
	return polygons, shp.BBoxFromPoints(boxCorners(boxes)), nil
}

func boxCorners(boxes []shp.Box) []shp.Point {
	pts := make([]shp.Point, 0, 2*len(boxes))
	for _, b := range boxes {
		pts = append(pts, shp.Point{X: b.MinX, Y: b.MinY}, shp.Point{X: b.MaxX, Y: b.MaxY})
	}
	return pts
}

// New loads the basemap and centres it on the home station if one is set.
func New(mapShapePath string, conf config.Config) (Model, error) {
	polygons, bounds, err := loadMapData(mapShapePath)
	if err != nil {
		return Model{}, err
	}
	m := newModel(polygons, bounds)

	if grid := conf.Station.GridSquare; grid != "" {
		lat, lon, err := location.GridSquareToLatLon(grid)
		if err != nil {
			log.Warn("Could not parse station gridsquare", "grid", grid, "err", err)
		} else {
			m.home = &station{callsign: conf.Station.Callsign, lat: lat, lon: lon, marker: 'H'}
		}
	}

	if m.home != nil && conf.Map.DefaultZoom > 1.0 {
		m.setCenterAndZoom(m.home.lon, m.home.lat, conf.Map.DefaultZoom)
	}
	return m, nil
}

func newModel(polygons []*shp.Polygon, bounds shp.Box) Model {
	return Model{
		polygons:       polygons,
		originalBounds: bounds,
		viewBounds:     bounds,
		width:          80,
		height:         23,
		stationIdx:     make(map[string]int),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) setCenterAndZoom(lon, lat, zoomLevel float64) {
	newWidth := (m.originalBounds.MaxX - m.originalBounds.MinX) / zoomLevel
	newHeight := (m.originalBounds.MaxY - m.originalBounds.MinY) / zoomLevel
	m.viewBounds = shp.Box{
		MinX: lon - newWidth/2,
		MaxX: lon + newWidth/2,
		MinY: lat - newHeight/2,
		MaxY: lat + newHeight/2,
	}
}

func (m *Model) zoomByFactor(factor float64) {
	centerX := (m.viewBounds.MinX + m.viewBounds.MaxX) / 2
	centerY := (m.viewBounds.MinY + m.viewBounds.MaxY) / 2
	newWidth := (m.viewBounds.MaxX - m.viewBounds.MinX) * factor
	newHeight := (m.viewBounds.MaxY - m.viewBounds.MinY) * factor
	if newWidth > (m.originalBounds.MaxX-m.originalBounds.MinX) || newHeight > (m.originalBounds.MaxY-m.originalBounds.MinY) {
		m.viewBounds = m.originalBounds
		return
	}
	m.viewBounds = shp.Box{
		MinX: centerX - newWidth/2,
		MaxX: centerX + newWidth/2,
		MinY: centerY - newHeight/2,
		MaxY: centerY + newHeight/2,
	}
}

func (m *Model) pan(dx, dy float64) {
	panX := (m.viewBounds.MaxX - m.viewBounds.MinX) * dx
	panY := (m.viewBounds.MaxY - m.viewBounds.MinY) * dy
	m.viewBounds.MinX += panX
	m.viewBounds.MaxX += panX
	m.viewBounds.MinY += panY
	m.viewBounds.MaxY += panY
}

// GetZoomLevel returns how far in from the full basemap the view is.
func (m Model) GetZoomLevel() float64 {
	if m.viewBounds.MaxX == m.viewBounds.MinX {
		return 1.0
	}
	return (m.originalBounds.MaxX - m.originalBounds.MinX) / (m.viewBounds.MaxX - m.viewBounds.MinX)
}

// plot records a report's position, replacing the station's previous one.
func (m *Model) plot(r *packet.Report) {
	lat, lon, ok := r.Position()
	if !ok {
		return
	}
	s := station{callsign: r.Source, lat: lat, lon: lon, marker: '*'}
	if len(r.Symbol) == 1 {
		s.marker = rune(r.Symbol[0])
	}
	if i, seen := m.stationIdx[r.Source]; seen {
		m.stations[i] = s
		return
	}
	m.stationIdx[r.Source] = len(m.stations)
	m.stations = append(m.stations, s)
}

// Update function
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case *packet.Report:
		m.plot(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "k", "up":
			m.pan(0, panFactor)
		case "l", "down":
			m.pan(0, -panFactor)
		case "j", "left":
			m.pan(-panFactor, 0)
		case ";", "right":
			m.pan(panFactor, 0)
		case "K":
			m.zoomByFactor(1 / zoomFactor)
		case "L":
			m.zoomByFactor(zoomFactor)
		case "r":
			m.viewBounds = m.originalBounds
		}
	}
	return m, nil
}

// project converts lon/lat to terminal x/y coordinates
func (m Model) project(lon, lat float64, viewWidth, viewHeight int) (int, int) {
	spanX := m.viewBounds.MaxX - m.viewBounds.MinX
	spanY := m.viewBounds.MaxY - m.viewBounds.MinY
	if spanX == 0 {
		spanX = 1e-6
	}
	if spanY == 0 {
		spanY = 1e-6
	}
	x := (lon - m.viewBounds.MinX) / spanX
	y := (m.viewBounds.MaxY - lat) / spanY // Screen rows grow downwards
	return int(x * float64(viewWidth)), int(y * float64(viewHeight))
}

// canvas is a grid of runes the size of the viewport.
type canvas [][]rune

func newCanvas(w, h int) canvas {
	c := make(canvas, h)
	for i := range c {
		c[i] = []rune(strings.Repeat(" ", w))
	}
	return c
}

func (c canvas) inside(x, y int) bool {
	return y >= 0 && y < len(c) && x >= 0 && x < len(c[y])
}

func (c canvas) set(x, y int, r rune) {
	if c.inside(x, y) {
		c[y][x] = r
	}
}

// label writes text centred under (x, y) without covering anything drawn.
func (c canvas) label(x, y int, text string) {
	runes := []rune(text)
	start := x - len(runes)/2
	for i, r := range runes {
		if c.inside(start+i, y+1) && c[y+1][start+i] == ' ' {
			c[y+1][start+i] = r
		}
	}
}

func (c canvas) String() string {
	var b strings.Builder
	for _, row := range c {
		b.WriteString(string(row))
		b.WriteRune('\n')
	}
	return b.String()
}

func (m Model) renderMapViewport(viewWidth, viewHeight int) string {
	viewWidth = max(viewWidth, 1)
	viewHeight = max(viewHeight, 1)
	c := newCanvas(viewWidth, viewHeight)

	for _, polygon := range m.polygons {
		bb := polygon.BBox()
		if bb.MaxX < m.viewBounds.MinX || bb.MinX > m.viewBounds.MaxX ||
			bb.MaxY < m.viewBounds.MinY || bb.MinY > m.viewBounds.MaxY {
			continue
		}
		for _, p := range polygon.Points {
			x, y := m.project(p.X, p.Y, viewWidth, viewHeight)
			c.set(x, y, '.')
		}
	}

	if m.home != nil {
		x, y := m.project(m.home.lon, m.home.lat, viewWidth, viewHeight)
		c.set(x, y, m.home.marker)
	}

	for _, s := range m.stations {
		x, y := m.project(s.lon, s.lat, viewWidth, viewHeight)
		if !c.inside(x, y) {
			continue
		}
		c.set(x, y, s.marker)
		c.label(x, y, s.callsign)
	}

	return c.String()
}

// View function
func (m Model) View() string {
	mapStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2)

	hFrame := mapStyle.GetBorderLeftSize() + mapStyle.GetBorderRightSize() + mapStyle.GetPaddingLeft() + mapStyle.GetPaddingRight()
	vFrame := mapStyle.GetBorderTopSize() + mapStyle.GetBorderBottomSize() + mapStyle.GetPaddingTop() + mapStyle.GetPaddingBottom()

	return mapStyle.Render(m.renderMapViewport(mapStyle.GetWidth()-hFrame, mapStyle.GetHeight()-vFrame))
}
