package receiver

import (
	"github.com/prometheus/client_golang/prometheus"

	"aprsmap/packet"
)

// Metrics counts what the receiver has seen. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	frames    *prometheus.CounterVec
	positions prometheus.Counter
	anomalies prometheus.Counter
	devices   *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewMetrics creates the receiver counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aprs_frames_total",
				Help: "AX.25 frames processed, by result.",
			},
			[]string{"result"},
		),
		positions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aprs_positions_total",
			Help: "Frames that yielded both latitude and longitude.",
		}),
		anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aprs_framing_anomalies_total",
			Help: "Frames whose control/PID marker was not on an address boundary.",
		}),
		devices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aprs_mice_devices_total",
				Help: "Mic-E reports by device manufacturer.",
			},
			[]string{"manufacturer"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aprs_delivery_failures_total",
				Help: "Decoded records a sink or the registry failed to take, by consumer.",
			},
			[]string{"consumer"},
		),
	}
	reg.MustRegister(m.frames, m.positions, m.anomalies, m.devices, m.failures)
	return m
}

func (m *Metrics) dropped() {
	if m == nil {
		return
	}
	m.frames.With(prometheus.Labels{"result": "dropped"}).Inc()
}

func (m *Metrics) sinkFailed(consumer string) {
	if m == nil {
		return
	}
	m.failures.With(prometheus.Labels{"consumer": consumer}).Inc()
}

func (m *Metrics) misaligned() {
	if m == nil {
		return
	}
	m.anomalies.Inc()
}

func (m *Metrics) decoded(pkt *packet.Report) {
	if m == nil {
		return
	}
	m.frames.With(prometheus.Labels{"result": "decoded"}).Inc()
	if _, _, ok := pkt.Position(); ok {
		m.positions.Inc()
	}
	if pkt.Device != nil {
		manufacturer := pkt.Device.Manufacturer
		if !pkt.Device.Known() {
			manufacturer = "unknown"
		}
		m.devices.With(prometheus.Labels{"manufacturer": manufacturer}).Inc()
	}
}
