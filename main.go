package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"

	"aprsmap/bandplan"
	"aprsmap/config"
	"aprsmap/device/aprsis"
	"aprsmap/device/kiss"
	"aprsmap/location"
	"aprsmap/packet"
	"aprsmap/receiver"
	"aprsmap/web"
)

// PacketClient defines the interface for TNC/network clients
type PacketClient interface {
	Start(chan<- []byte)
	Close()
}

func main() {
	configPath := flag.StringP("config", "c", config.DefaultPath, "Configuration file")
	frequency := flag.Int64P("frequency", "f", 0, "Dial frequency in Hz, overrides [radio] frequency")
	headless := flag.Bool("headless", false, "Log decoded records instead of drawing the map")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", "path", *configPath, "err", err)
	}
	if *frequency > 0 {
		conf.Radio.Frequency = *frequency
	}

	logger, closeLog, err := setupLogging(conf.Log, *headless)
	if err != nil {
		log.Fatal("Failed to set up logging", "err", err)
	}
	defer closeLog()

	if err := run(conf, logger, *headless); err != nil {
		logger.Error("aprsmap stopped", "err", err)
		closeLog()
		os.Exit(1)
	}
}

// setupLogging sends the log to stderr when headless and to the log file
// otherwise, so it does not draw over the map.
func setupLogging(conf config.LogConfig, headless bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(conf.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if !headless {
		if conf.File == "" {
			w = io.Discard
		} else {
			f, err := os.OpenFile(conf.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("opening log file: %w", err)
			}
			w = f
			closeFn = func() { f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	log.SetDefault(logger)
	return logger, closeFn, nil
}

func connect(conf config.Config, logger *log.Logger) (PacketClient, error) {
	switch strings.ToUpper(conf.Interface.Type) {
	case "KISS":
		return kiss.Connect(conf.Interface, logger)
	case "APRSIS":
		// APRS-IS needs the station section for the login.
		return aprsis.Connect(conf, logger)
	default:
		return nil, fmt.Errorf("unknown interface type in config: %s", conf.Interface.Type)
	}
}

func newRegistry(conf config.StationConfig, logger *log.Logger) *location.Registry {
	if conf.GridSquare == "" {
		return location.New()
	}
	lat, lon, err := location.GridSquareToLatLon(conf.GridSquare)
	if err != nil {
		logger.Warn("Could not parse station gridsquare, distances disabled", "grid", conf.GridSquare, "err", err)
		return location.New()
	}
	return location.New(location.WithHome(lat, lon))
}

// logSink writes each record to the log in headless mode.
type logSink struct {
	logger *log.Logger
}

func (s logSink) WriteRecord(r *packet.Report) {
	s.logger.Info("APRS record", "record", r.Fields())
}

// reportSink forwards records to the map. When the UI is not keeping up,
// for instance while it shows an error, records are dropped so the
// receiver and the other sinks keep running.
type reportSink chan *packet.Report

func (s reportSink) WriteRecord(r *packet.Report) {
	select {
	case s <- r:
	default:
		log.Debug("Map is not reading, record dropped", "source", r.Source)
	}
}

func run(conf config.Config, logger *log.Logger, headless bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan, err := bandplan.Load(conf.Radio.BandPlan)
	if err != nil {
		return fmt.Errorf("loading band plan: %w", err)
	}
	registry := newRegistry(conf.Station, logger)

	promReg := prometheus.NewRegistry()
	metrics := receiver.NewMetrics(promReg)

	var sinks []receiver.Sink
	if conf.Web.Listen != "" {
		hub := web.NewHub(logger)
		srv := web.NewServer(conf.Web.Listen, hub, promReg, logger)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("Web server failed", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Stop(shutdownCtx)
		}()
		sinks = append(sinks, hub)
	}

	var reports reportSink
	if headless {
		sinks = append(sinks, logSink{logger: logger})
	} else {
		reports = make(reportSink, 64)
		sinks = append(sinks, reports)
	}

	rcv := receiver.New(
		receiver.WithSinks(sinks...),
		receiver.WithRegistry(registry),
		receiver.WithBandPlan(plan),
		receiver.WithLogger(logger),
		receiver.WithMetrics(metrics),
	)
	rcv.SetDialFrequency(conf.Radio.Frequency)

	client, err := connect(conf, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to interface: %w", err)
	}
	defer client.Close()

	frames := make(chan []byte, 64)
	go client.Start(frames)

	if headless {
		return rcv.Run(ctx, frames)
	}

	go func() {
		if err := rcv.Run(ctx, frames); err != nil {
			logger.Debug("Receiver stopped", "err", err)
		}
		close(reports)
	}()

	m := initialModel(conf, rcv.Band(), registry, reports)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
