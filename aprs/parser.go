package aprs

import (
	"fmt"

	"aprsmap/packet"
)

// Parse turns a decoded AX.25 frame into a report. Source, destination
// and path are always forwarded; position fields are filled in only for
// Mic-E and plain position reports.
func Parse(f *Frame) (*packet.Report, error) {
	if len(f.Payload) == 0 {
		return nil, fmt.Errorf("empty APRS payload")
	}

	pkt := &packet.Report{
		Source:      f.Source.String(),
		Destination: f.Destination.String(),
		Path:        make([]string, 0, len(f.Path)),
	}
	for _, digi := range f.Path {
		pkt.Path = append(pkt.Path, digi.String())
	}

	// Check the APRS Data Type Identifier (first byte of payload)
	switch f.Payload[0] {
	case micECurrent, micEOld:
		m, err := DecodeMicE(f)
		if err != nil {
			return nil, fmt.Errorf("mic-e parse failed: %w", err)
		}
		pkt.Lat = &m.Lat
		pkt.Lon = &m.Lon
		pkt.Comment = &m.Comment
		pkt.Altitude = m.Altitude
		pkt.Device = m.Device

	case '!', '=':
		// Position without timestamp
		if err := parsePosition(pkt, f.Payload[1:]); err != nil {
			return nil, err
		}

	case '/', '@':
		// Position with timestamp; the timestamp itself is skipped.
		if len(f.Payload) < 1+timestampLen {
			return nil, fmt.Errorf("timestamped position too short")
		}
		if err := parsePosition(pkt, f.Payload[1+timestampLen:]); err != nil {
			return nil, err
		}
	}

	return pkt, nil
}

func parsePosition(pkt *packet.Report, info []byte) error {
	text, err := asciiText(info)
	if err != nil {
		return fmt.Errorf("position report: %w", err)
	}
	c, err := DecodeCoordinates(text)
	if err != nil {
		return fmt.Errorf("position parse failed: %w", err)
	}
	pkt.Lat = &c.Lat
	pkt.Lon = &c.Lon
	pkt.SymbolTable = string(c.SymbolTable)
	pkt.Symbol = string(c.Symbol)
	pkt.Comment = &c.Comment
	return nil
}
