package kiss

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"go.bug.st/serial"
)

const (
	defaultBaud = 9600
	dialTimeout = 10 * time.Second
)

// isNetworkAddress reports whether device names a TCP TNC such as
// Direwolf ("192.168.1.30:8001") rather than a serial port. Windows COM
// ports never contain ':'.
func isNetworkAddress(device string) bool {
	_, _, err := net.SplitHostPort(device)
	return err == nil
}

// openTransport opens the byte stream to the TNC. kind is "tcp" or "serial".
func openTransport(device string, baud int) (conn io.ReadWriteCloser, kind string, err error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil, "", fmt.Errorf("no KISS device configured (a serial port like /dev/ttyUSB0 or COM3, or host:port)")
	}

	if isNetworkAddress(device) {
		c, err := net.DialTimeout("tcp", device, dialTimeout)
		if err != nil {
			return nil, "tcp", fmt.Errorf("failed to connect to KISS TNC at %s: %w", device, err)
		}
		return c, "tcp", nil
	}

	if baud <= 0 {
		baud = defaultBaud
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, "serial", fmt.Errorf("failed to open serial port %s: %w", device, err)
	}
	return port, "serial", nil
}
