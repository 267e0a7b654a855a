package aprsis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"aprsmap/aprs"
	"aprsmap/config"
	"aprsmap/location"
)

const (
	appName    = "aprsmap"
	appVersion = "0.2"

	dialTimeout  = 15 * time.Second
	loginTimeout = 10 * time.Second

	// Used when the station has no usable grid square.
	fallbackLat = 41.5
	fallbackLon = -81.0
)

// Client represents an active connection to an APRS-IS server
type Client struct {
	conn       net.Conn
	reader     *bufio.Reader
	callsign   string
	filter     string
	logger     *log.Logger
	IsVerified bool
}

// Connect dials the configured APRS-IS server and logs in.
func Connect(conf config.Config, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Default()
	}
	callsign := conf.Station.Callsign
	if callsign == "" {
		return nil, fmt.Errorf("callsign missing in config for APRS-IS")
	}
	passcode := checkPasscode(callsign, conf.Station.Passcode, logger)
	filter := rangeFilter(conf.Station.GridSquare, conf.Interface.Radius, logger)

	server := conf.Interface.Server
	logger.Info("Attempting APRS-IS connection", "server", server)
	conn, err := net.DialTimeout("tcp", server, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to APRS-IS server %s: %w", server, err)
	}
	logger.Info("Connected to APRS-IS server", "remote", conn.RemoteAddr())

	client := newClient(conn, callsign, filter, logger)
	if err := client.login(passcode); err != nil {
		client.Close()
		return nil, fmt.Errorf("APRS-IS login failed: %w", err)
	}

	logger.Info("APRS-IS login successful", "verified", client.IsVerified)
	return client, nil
}

func newClient(conn net.Conn, callsign, filter string, logger *log.Logger) *Client {
	return &Client{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		callsign: callsign,
		filter:   filter,
		logger:   logger,
	}
}

// checkPasscode returns the passcode to log in with; -1 means read-only.
func checkPasscode(callsign string, passcode int, logger *log.Logger) int {
	if passcode <= 0 {
		logger.Warn("APRS-IS passcode not provided, connecting read-only")
		return -1
	}
	expected, err := aprs.CalculatePasscode(callsign)
	if err != nil {
		logger.Warn("Cannot check APRS-IS passcode, connecting read-only", "err", err)
		return -1
	}
	if passcode != expected {
		logger.Warn("APRS-IS passcode does not match callsign, connecting read-only", "callsign", callsign)
		return -1
	}
	return passcode
}

// rangeFilter builds an r/lat/lon/km server-side filter around the station.
func rangeFilter(grid string, radiusKm int, logger *log.Logger) string {
	lat, lon := fallbackLat, fallbackLon
	radius := radiusKm
	if grid == "" {
		logger.Warn("Station gridsquare not set, using default APRS-IS filter")
		radius *= 2
	} else if gLat, gLon, err := location.GridSquareToLatLon(grid); err != nil {
		logger.Warn("Could not parse station gridsquare, using default APRS-IS filter", "grid", grid, "err", err)
		radius *= 2
	} else {
		lat, lon = gLat, gLon
	}
	return fmt.Sprintf("r/%.3f/%.3f/%d", lat, lon, radius)
}

// login sends the login string and waits for the server's logresp line.
func (c *Client) login(passcode int) error {
	loginStr := fmt.Sprintf("user %s pass %d vers %s %s filter %s\r\n",
		c.callsign, passcode, appName, appVersion, c.filter)
	c.logger.Debug("Sending APRS-IS login", "callsign", c.callsign, "filter", c.filter)

	if _, err := c.conn.Write([]byte(loginStr)); err != nil {
		return fmt.Errorf("failed to send login string: %w", err)
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(loginTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return fmt.Errorf("timeout waiting for login response from server")
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("connection closed unexpectedly during login")
			}
			return fmt.Errorf("error reading login response: %w", err)
		}
		line := strings.TrimSpace(string(lineBytes))
		c.logger.Debug("APRS-IS server", "line", line)

		if !strings.HasPrefix(line, "#") {
			// Data before logresp; assume a read-only session.
			c.IsVerified = false
			return nil
		}
		if !strings.HasPrefix(line, "# logresp ") {
			continue
		}

		// # logresp <callsign> verified|unverified, server <serverid>
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		if !strings.EqualFold(parts[2], c.callsign) {
			return fmt.Errorf("login response callsign mismatch: expected %s, got %s", c.callsign, parts[2])
		}
		c.IsVerified = strings.HasPrefix(parts[3], "verified") && passcode != -1
		return nil
	}
}

// Start reads TNC2 lines from the server, re-encodes each as an AX.25
// frame and sends it down frames. frames is closed when the connection
// ends. Run it as a goroutine.
func (c *Client) Start(frames chan<- []byte) {
	defer close(frames)
	c.logger.Info("Starting APRS-IS packet reader")

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.logger.Info("APRS-IS connection closed")
			} else {
				c.logger.Error("Error reading APRS-IS stream", "err", err)
			}
			return
		}

		line := strings.TrimRight(string(lineBytes), "\r\n")
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		raw, err := aprs.EncodeTNC2(line)
		if err != nil {
			c.logger.Debug("Skipping APRS-IS line", "err", err, "line", line)
			continue
		}
		frames <- raw
	}
}

// Close disconnects the client
func (c *Client) Close() {
	if c.conn != nil {
		c.logger.Info("Closing APRS-IS connection")
		c.conn.Close()
	}
}
