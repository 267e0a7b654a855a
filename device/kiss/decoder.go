package kiss

import (
	"bufio"
	"bytes"
	"io"
)

// KISS protocol constants
const (
	FEND  byte = 0xC0 // Frame End
	FESC  byte = 0xDB // Frame Escape
	TFEND byte = 0xDC // Transposed Frame End
	TFESC byte = 0xDD // Transposed Frame Escape

	cmdDataFrame byte = 0x00
)

// Decoder splits a KISS byte stream into frames.
type Decoder struct {
	r       *bufio.Reader
	frame   bytes.Buffer
	inFrame bool
}

// NewDecoder creates a new KISS frame decoder
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadFrame returns the next non-empty frame, unescaped, including the
// leading type byte. Bytes outside FEND delimiters are discarded.
func (d *Decoder) ReadFrame() ([]byte, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}

		switch {
		case b == FEND:
			// A FEND both closes one frame and opens the next.
			if d.inFrame && d.frame.Len() > 0 {
				out := bytes.Clone(d.frame.Bytes())
				d.frame.Reset()
				return out, nil
			}
			d.inFrame = true
		case !d.inFrame:
			continue
		case b == FESC:
			b, err = d.r.ReadByte()
			if err != nil {
				return nil, err
			}
			switch b {
			case TFEND:
				d.frame.WriteByte(FEND)
			case TFESC:
				d.frame.WriteByte(FESC)
			default:
				// Protocol error, but we'll be lenient
				d.frame.WriteByte(b)
			}
		default:
			d.frame.WriteByte(b)
		}
	}
}

// DataFrame splits a KISS frame into its port and AX.25 contents. ok is
// false for command frames (anything but a data frame).
func DataFrame(frame []byte) (port int, ax25 []byte, ok bool) {
	if len(frame) < 2 || frame[0]&0x0F != cmdDataFrame {
		return 0, nil, false
	}
	return int(frame[0] >> 4), frame[1:], true
}

// Encode wraps an AX.25 frame as a KISS data frame for port 0.
func Encode(ax25 []byte) []byte {
	out := make([]byte, 0, len(ax25)+3)
	out = append(out, FEND, cmdDataFrame)
	for _, b := range ax25 {
		switch b {
		case FEND:
			out = append(out, FESC, TFEND)
		case FESC:
			out = append(out, FESC, TFESC)
		default:
			out = append(out, b)
		}
	}
	return append(out, FEND)
}
