// Package location keeps the last reported position of every station heard.
package location

import (
	"sort"
	"sync"
	"time"

	"github.com/golang/geo/s2"

	"aprsmap/packet"
)

const earthRadiusKm = 6371.01

// Entry is the registry's view of one station.
type Entry struct {
	Callsign string
	Location packet.Location
	Source   string // Which decoder reported it, e.g. "APRS"
	Band     string
	Updated  time.Time

	// DistanceKm is the great-circle distance from the home station. It is
	// only meaningful when HasDistance is set.
	DistanceKm  float64
	HasDistance bool
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	home    *s2.LatLng
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithHome sets the point distances are measured from.
func WithHome(lat, lon float64) Option {
	return func(r *Registry) {
		h := s2.LatLngFromDegrees(lat, lon)
		r.home = &h
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UpdateLocation replaces whatever was known about callsign.
func (r *Registry) UpdateLocation(callsign string, loc packet.Location, source string, band string) {
	e := Entry{
		Callsign: callsign,
		Location: loc,
		Source:   source,
		Band:     band,
		Updated:  r.now(),
	}
	if r.home != nil {
		p := s2.LatLngFromDegrees(loc.Lat, loc.Lon)
		e.DistanceKm = r.home.Distance(p).Radians() * earthRadiusKm
		e.HasDistance = true
	}

	r.mu.Lock()
	r.entries[callsign] = e
	r.mu.Unlock()
}

// Get returns the entry for callsign.
func (r *Registry) Get(callsign string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[callsign]
	return e, ok
}

// Len returns the number of stations known.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns every entry, most recently updated first.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Updated.Equal(out[j].Updated) {
			return out[i].Updated.After(out[j].Updated)
		}
		return out[i].Callsign < out[j].Callsign
	})
	return out
}

// Expire drops entries older than maxAge and returns how many went.
func (r *Registry) Expire(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, e := range r.entries {
		if e.Updated.Before(cutoff) {
			delete(r.entries, k)
			n++
		}
	}
	return n
}
