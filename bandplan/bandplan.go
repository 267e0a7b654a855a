// Package bandplan maps a dial frequency to an amateur band name.
package bandplan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Band is one contiguous frequency range, bounds inclusive, in Hz.
type Band struct {
	Name       string `yaml:"name"`
	LowerBound int64  `yaml:"lower_bound"`
	UpperBound int64  `yaml:"upper_bound"`
}

// Contains reports whether freq falls inside the band.
func (b Band) Contains(freq int64) bool {
	return freq >= b.LowerBound && freq <= b.UpperBound
}

// Plan is an ordered list of bands; the first match wins.
type Plan struct {
	Bands []Band `yaml:"bands"`
}

// Default is used when no band plan file is configured. IARU region 2
// edges for the bands APRS is commonly heard on.
var Default = &Plan{Bands: []Band{
	{Name: "160m", LowerBound: 1800000, UpperBound: 2000000},
	{Name: "80m", LowerBound: 3500000, UpperBound: 4000000},
	{Name: "40m", LowerBound: 7000000, UpperBound: 7300000},
	{Name: "30m", LowerBound: 10100000, UpperBound: 10150000},
	{Name: "20m", LowerBound: 14000000, UpperBound: 14350000},
	{Name: "10m", LowerBound: 28000000, UpperBound: 29700000},
	{Name: "6m", LowerBound: 50000000, UpperBound: 54000000},
	{Name: "2m", LowerBound: 144000000, UpperBound: 148000000},
	{Name: "1.25m", LowerBound: 222000000, UpperBound: 225000000},
	{Name: "70cm", LowerBound: 420000000, UpperBound: 450000000},
}}

// Parse reads a plan from YAML.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse band plan: %w", err)
	}
	for i, b := range p.Bands {
		if b.Name == "" {
			return nil, fmt.Errorf("band %d has no name", i)
		}
		if b.LowerBound > b.UpperBound {
			return nil, fmt.Errorf("band %s: lower bound %d above upper bound %d", b.Name, b.LowerBound, b.UpperBound)
		}
	}
	return &p, nil
}

// Load reads a plan from a YAML file. An empty path gives Default.
func Load(path string) (*Plan, error) {
	if path == "" {
		return Default, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Find returns the band containing freq.
func (p *Plan) Find(freq int64) (Band, bool) {
	for _, b := range p.Bands {
		if b.Contains(freq) {
			return b, true
		}
	}
	return Band{}, false
}

// FindBand returns the name of the band containing freq.
func (p *Plan) FindBand(freq int64) (string, bool) {
	b, ok := p.Find(freq)
	return b.Name, ok
}
