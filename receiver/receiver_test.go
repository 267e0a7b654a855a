package receiver

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aprsmap/aprs"
	"aprsmap/packet"
)

type recordingSink struct {
	records []*packet.Report
}

func (s *recordingSink) WriteRecord(r *packet.Report) {
	s.records = append(s.records, r)
}

type locationUpdate struct {
	callsign string
	loc      packet.Location
	source   string
	band     string
}

type recordingRegistry struct {
	updates []locationUpdate
}

func (r *recordingRegistry) UpdateLocation(callsign string, loc packet.Location, source string, band string) {
	r.updates = append(r.updates, locationUpdate{callsign, loc, source, band})
}

type twoMetres struct{}

func (twoMetres) FindBand(freq int64) (string, bool) {
	if freq >= 144000000 && freq <= 148000000 {
		return "2m", true
	}
	return "", false
}

type panicSink struct{}

func (panicSink) WriteRecord(*packet.Report) { panic("sink exploded") }

func frame(t *testing.T, line string) []byte {
	t.Helper()
	raw, err := aprs.EncodeTNC2(line)
	require.NoError(t, err)
	return raw
}

func newTestReceiver(t *testing.T, opts ...Option) (*Receiver, *recordingSink, *recordingRegistry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	sink := &recordingSink{}
	reg := &recordingRegistry{}
	opts = append([]Option{
		WithSinks(sink),
		WithRegistry(reg),
		WithBandPlan(twoMetres{}),
		WithLogger(log.New(&buf)),
	}, opts...)
	return New(opts...), sink, reg, &buf
}

func TestProcess_Position(t *testing.T) {
	r, sink, reg, _ := newTestReceiver(t)
	r.SetDialFrequency(144390000)
	assert.Equal(t, "2m", r.Band())

	res := r.Process(frame(t, "N0CALL-9>APRS,WIDE2-1:!4903.50N/07201.75W>comment"))
	require.NoError(t, res.Err)
	require.Len(t, sink.records, 1)
	assert.Same(t, res.Report, sink.records[0])

	require.Len(t, reg.updates, 1)
	u := reg.updates[0]
	assert.Equal(t, "N0CALL-9", u.callsign)
	assert.Equal(t, "APRS", u.source)
	assert.Equal(t, "2m", u.band)
	assert.InDelta(t, 49.0583, u.loc.Lat, 1e-4)
	assert.InDelta(t, -72.0292, u.loc.Lon, 1e-4)
	assert.Equal(t, "comment", u.loc.Comment)
}

func TestProcess_NoBand(t *testing.T) {
	r, _, reg, _ := newTestReceiver(t)
	r.SetDialFrequency(14105000)

	res := r.Process(frame(t, "N0CALL>APRS:!4903.50N/07201.75W>"))
	require.NoError(t, res.Err)
	require.Len(t, reg.updates, 1)
	assert.Equal(t, "", reg.updates[0].band)
}

func TestProcess_NonPosition(t *testing.T) {
	r, sink, reg, _ := newTestReceiver(t)

	res := r.Process(frame(t, "N0CALL>APRS,WIDE1-1:>status text"))
	require.NoError(t, res.Err)
	require.Len(t, sink.records, 1)
	assert.Empty(t, reg.updates)

	fields := sink.records[0].Fields()
	assert.Len(t, fields, 3)
	assert.Equal(t, "N0CALL", fields["source"])
	assert.Equal(t, "APRS", fields["destination"])
	assert.Equal(t, []string{"WIDE1-1"}, fields["path"])
}

func TestProcess_Misaligned(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r, sink, _, buf := newTestReceiver(t, WithMetrics(m))

	good := frame(t, "N0CALL>APRS:!4903.50N/07201.75W>")
	raw := append([]byte{}, good[:14]...)
	raw = append(raw, 0x40)
	raw = append(raw, good[14:]...)

	res := r.Process(raw)
	require.NoError(t, res.Err)
	assert.Len(t, sink.records, 1)
	assert.Contains(t, buf.String(), "framing error")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anomalies))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.positions))
}

func TestProcess_Failure(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r, sink, reg, _ := newTestReceiver(t, WithMetrics(m))

	res := r.Process([]byte{0x01, 0x02, 0x03})
	require.Error(t, res.Err)
	assert.Nil(t, res.Report)

	var fe *FrameError
	require.True(t, errors.As(res.Err, &fe))
	assert.Equal(t, "ax25", fe.Stage)

	res = r.Process(frame(t, "N0CALL>APRS:!4903"))
	require.True(t, errors.As(res.Err, &fe))
	assert.Equal(t, "aprs", fe.Stage)

	assert.Empty(t, sink.records)
	assert.Empty(t, reg.updates)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.frames.WithLabelValues("dropped")))
}

func TestProcess_SinkPanicIsContained(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r, sink, reg, buf := newTestReceiver(t, WithMetrics(m))
	r.sinks = append([]Sink{panicSink{}}, r.sinks...)

	res := r.Process(frame(t, "N0CALL>APRS:!4903.50N/07201.75W>hello"))
	require.NoError(t, res.Err)
	require.NotNil(t, res.Report)

	assert.Len(t, sink.records, 1)
	assert.Len(t, reg.updates, 1)
	assert.Contains(t, buf.String(), "sink exploded")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("sink")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.frames.WithLabelValues("decoded")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.frames.WithLabelValues("dropped")))
}

type panicRegistry struct{}

func (panicRegistry) UpdateLocation(string, packet.Location, string, string) {
	panic("registry exploded")
}

func TestProcess_RegistryPanicIsContained(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r, sink, _, _ := newTestReceiver(t, WithMetrics(m), WithRegistry(panicRegistry{}))

	res := r.Process(frame(t, "N0CALL>APRS:!4903.50N/07201.75W>"))
	require.NoError(t, res.Err)
	assert.Len(t, sink.records, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("registry")))
}

func TestProcess_MicEDeviceMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r, sink, _, _ := newTestReceiver(t, WithMetrics(m))

	res := r.Process(frame(t, "N0CALL-7>490S5P:`dYgl!!>/`hi_b"))
	require.NoError(t, res.Err)
	require.Len(t, sink.records, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.devices.WithLabelValues("Yaesu")))
}

func TestRun_IsolatesFailures(t *testing.T) {
	r, sink, _, buf := newTestReceiver(t)

	frames := make(chan []byte, 5)
	frames <- frame(t, "AA1A>APRS:>one")
	frames <- frame(t, "BB2B>APRS:>two")
	frames <- []byte("garbage")
	frames <- frame(t, "CC3C>APRS:>four")
	frames <- frame(t, "DD4D>APRS:!4903.50N/07201.75W>five")
	close(frames)

	require.NoError(t, r.Run(context.Background(), frames))

	var got []string
	for _, rec := range sink.records {
		got = append(got, rec.Source)
	}
	assert.Equal(t, []string{"AA1A", "BB2B", "CC3C", "DD4D"}, got)
	assert.Contains(t, buf.String(), "exception while parsing aprs data")
}

func TestRun_Cancelled(t *testing.T) {
	r, _, _, _ := newTestReceiver(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, make(chan []byte))
	assert.ErrorIs(t, err, context.Canceled)
}
