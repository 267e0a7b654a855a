// Package receiver runs decoded AX.25 frames through the APRS decoder and
// hands the results to the record sinks and the location registry.
package receiver

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"aprsmap/aprs"
	"aprsmap/packet"
)

// locationSource tags every registry update made by this receiver.
const locationSource = "APRS"

// Sink receives one record per successfully decoded frame.
type Sink interface {
	WriteRecord(r *packet.Report)
}

// Registry stores the last known location of a station.
type Registry interface {
	UpdateLocation(callsign string, loc packet.Location, source string, band string)
}

// BandPlan classifies a dial frequency in Hz.
type BandPlan interface {
	FindBand(freq int64) (string, bool)
}

// FrameError is the reason a frame was dropped.
type FrameError struct {
	Stage string // "ax25", "aprs" or "panic"
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Result is the outcome of processing one frame: a report, or the error
// that caused the frame to be dropped.
type Result struct {
	Report *packet.Report
	Err    error
}

// Receiver decodes frames one at a time. Process and Run may be called
// while SetDialFrequency is changing the band from another goroutine.
type Receiver struct {
	sinks    []Sink
	registry Registry
	bandplan BandPlan
	logger   *log.Logger
	metrics  *Metrics

	mu   sync.RWMutex
	freq int64
	band string
}

// Option configures a Receiver.
type Option func(*Receiver)

// WithSinks adds record sinks.
func WithSinks(sinks ...Sink) Option {
	return func(r *Receiver) { r.sinks = append(r.sinks, sinks...) }
}

// WithRegistry sets the location registry.
func WithRegistry(reg Registry) Option {
	return func(r *Receiver) { r.registry = reg }
}

// WithBandPlan sets the band plan used by SetDialFrequency.
func WithBandPlan(bp BandPlan) Option {
	return func(r *Receiver) { r.bandplan = bp }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(r *Receiver) { r.logger = l }
}

// WithMetrics enables Prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(r *Receiver) { r.metrics = m }
}

// New creates a Receiver.
func New(opts ...Option) *Receiver {
	r := &Receiver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// SetDialFrequency records the receiver frequency and looks up its band.
func (r *Receiver) SetDialFrequency(hz int64) {
	band := ""
	if r.bandplan != nil {
		if b, ok := r.bandplan.FindBand(hz); ok {
			band = b
		}
	}

	r.mu.Lock()
	r.freq = hz
	r.band = band
	r.mu.Unlock()

	r.logger.Info("Dial frequency set", "hz", hz, "band", band)
}

// Band returns the band of the current dial frequency, or "".
func (r *Receiver) Band() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.band
}

// Process decodes one raw AX.25 frame. On success the record goes to every
// sink and, when it has a position, to the registry. On failure nothing is
// emitted and the Result carries a *FrameError. A panicking sink or
// registry is logged and counted but does not drop the frame.
func (r *Receiver) Process(raw []byte) Result {
	pkt, err := r.decode(raw)
	if err != nil {
		r.metrics.dropped()
		return Result{Err: err}
	}
	r.logger.Debug("Decoded APRS record", "record", pkt.Fields())

	if lat, lon, ok := pkt.Position(); ok && r.registry != nil {
		loc := packet.Location{Lat: lat, Lon: lon, Comment: pkt.CommentText()}
		r.deliver("registry", pkt, func() {
			r.registry.UpdateLocation(pkt.Source, loc, locationSource, r.Band())
		})
	}
	for _, s := range r.sinks {
		r.deliver("sink", pkt, func() { s.WriteRecord(pkt) })
	}

	r.metrics.decoded(pkt)
	return Result{Report: pkt}
}

// decode runs the AX.25 and APRS decoders. A panic in either becomes a
// FrameError with stage "panic".
func (r *Receiver) decode(raw []byte) (pkt *packet.Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			pkt, err = nil, &FrameError{Stage: "panic", Err: fmt.Errorf("%v", p)}
		}
	}()

	f, err := aprs.DecodeFrame(raw)
	if err != nil {
		return nil, &FrameError{Stage: "ax25", Err: err}
	}
	if f.Misaligned {
		r.logger.Warn("aprs packet framing error: control/pid position not aligned with 7-octet callsign data",
			"source", f.Source.String())
		r.metrics.misaligned()
	}

	pkt, err = aprs.Parse(f)
	if err != nil {
		return nil, &FrameError{Stage: "aprs", Err: err}
	}
	return pkt, nil
}

// deliver hands a record to one consumer, containing any panic so the
// remaining consumers still get it.
func (r *Receiver) deliver(kind string, pkt *packet.Report, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Record "+kind+" failed", "err", p, "source", pkt.Source)
			r.metrics.sinkFailed(kind)
		}
	}()
	fn()
}

// Run processes frames until the channel is closed or ctx is done. A frame
// that fails to decode is logged and skipped.
func (r *Receiver) Run(ctx context.Context, frames <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-frames:
			if !ok {
				return nil
			}
			if res := r.Process(raw); res.Err != nil {
				r.logger.Error("exception while parsing aprs data", "err", res.Err, "frame", hex.EncodeToString(raw))
			}
		}
	}
}
