package kiss

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"aprsmap/config"
)

// Client represents an active connection to a KISS TNC
type Client struct {
	conn   io.ReadWriteCloser // The underlying connection (TCP, Serial, etc.)
	logger *log.Logger
}

// NewClient wraps an already open TNC connection.
func NewClient(conn io.ReadWriteCloser, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{conn: conn, logger: logger}
}

// Connect opens the TNC named in conf. A host:port device is dialled over
// TCP, anything else is opened as a serial port.
func Connect(conf config.InterfaceConfig, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Default()
	}
	if !strings.EqualFold(conf.Type, "KISS") {
		return nil, fmt.Errorf("unknown interface type: %s", conf.Type)
	}

	logger.Info("Attempting KISS connection", "device", conf.Device, "baud", conf.Baud)
	conn, kind, err := openTransport(conf.Device, conf.Baud)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to KISS TNC", "via", kind)
	return NewClient(conn, logger), nil
}

// Start reads KISS frames and sends the AX.25 contents of every data frame
// down frames, closing it when the connection ends. Run it as a goroutine.
func (c *Client) Start(frames chan<- []byte) {
	defer close(frames)
	decoder := NewDecoder(c.conn)

	for {
		// ReadFrame blocks until a full frame is received
		frame, err := decoder.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.logger.Error("Error reading KISS frame", "err", err)
			}
			return
		}

		port, ax25, ok := DataFrame(frame)
		if !ok {
			c.logger.Debug("Ignoring non-data KISS frame", "cmd", fmt.Sprintf("0x%02X", frame[0]))
			continue
		}
		c.logger.Debug("KISS frame received", "port", port, "bytes", len(ax25))
		frames <- ax25
	}
}

// Close disconnects the client
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
