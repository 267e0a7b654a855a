package aprs

import (
	"bytes"
	"fmt"
)

// AX.25 constants
const (
	controlUI   byte = 0x03
	pidNoLayer3 byte = 0xF0

	addrExtension byte = 0x01 // Set on the last address of the header
	headerLen          = 2 * addrLen
)

var controlPID = []byte{controlUI, pidNoLayer3}

// Frame is a decoded AX.25 UI frame.
type Frame struct {
	Destination Callsign
	Source      Callsign
	Path        []Callsign
	Payload     []byte

	// DestinationField is the destination address as six raw characters,
	// before padding is trimmed. Mic-E hides data in it.
	DestinationField string

	// Misaligned is set when the control/PID marker does not sit on a
	// 7-byte address boundary. The frame is still decoded.
	Misaligned bool
}

// DecodeFrame splits a raw AX.25 frame into addresses and payload.
//
// The payload starts two bytes after the first 0x03 0xF0 pair found at or
// after offset 14. The search is a plain scan: an address byte pair that
// happens to match ahead of the real boundary will misdecode the frame.
func DecodeFrame(raw []byte) (*Frame, error) {
	if len(raw) < headerLen {
		return nil, fmt.Errorf("frame too short for AX.25 (%d bytes)", len(raw))
	}

	idx := bytes.Index(raw[headerLen:], controlPID)
	if idx == -1 {
		return nil, fmt.Errorf("no control/PID marker in frame")
	}
	m := headerLen + idx

	dest, err := DecodeCallsign(raw[0:7])
	if err != nil {
		return nil, fmt.Errorf("invalid AX.25 destination address: %w", err)
	}
	src, err := DecodeCallsign(raw[7:14])
	if err != nil {
		return nil, fmt.Errorf("invalid AX.25 source address: %w", err)
	}

	f := &Frame{
		Destination:      dest,
		Source:           src,
		DestinationField: addressChars(raw[0:7]),
		Misaligned:       idx%addrLen != 0,
		Payload:          raw[m+2:],
	}

	// Trailing bytes of a misaligned path are not a whole address; skip them.
	for off := headerLen; off+addrLen <= m; off += addrLen {
		digi, err := DecodeCallsign(raw[off : off+addrLen])
		if err != nil {
			return nil, fmt.Errorf("invalid AX.25 path address: %w", err)
		}
		f.Path = append(f.Path, digi)
	}

	return f, nil
}

// EncodeFrame builds a raw AX.25 UI frame from f's addresses and payload.
func EncodeFrame(f *Frame) ([]byte, error) {
	addrs := make([]Callsign, 0, 2+len(f.Path))
	addrs = append(addrs, f.Destination, f.Source)
	addrs = append(addrs, f.Path...)

	var buf bytes.Buffer
	buf.Grow(len(addrs)*addrLen + 2 + len(f.Payload))
	for i, a := range addrs {
		field, err := a.Encode()
		if err != nil {
			return nil, fmt.Errorf("address %d: %w", i, err)
		}
		if i == len(addrs)-1 {
			field[6] |= addrExtension
		}
		buf.Write(field[:])
	}
	buf.Write(controlPID)
	buf.Write(f.Payload)
	return buf.Bytes(), nil
}
