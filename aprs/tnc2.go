package aprs

import (
	"fmt"
	"strings"
)

// EncodeTNC2 converts an APRS-IS text line (SRC>DEST,PATH:payload) into a
// raw AX.25 frame so it can go through the same decoder as radio traffic.
// The q-construct and everything after it is APRS-IS routing and is
// dropped; any other path entry that is not a valid AX.25 address makes
// the line unrepresentable.
func EncodeTNC2(line string) ([]byte, error) {
	header, payload, ok := strings.Cut(line, ":")
	if !ok {
		return nil, fmt.Errorf("no payload separator ':' in line")
	}

	srcStr, rest, ok := strings.Cut(header, ">")
	if !ok {
		return nil, fmt.Errorf("no source callsign separator '>' found in header: %s", header)
	}
	src, err := ParseCallsign(srcStr)
	if err != nil {
		return nil, fmt.Errorf("invalid source callsign: %w", err)
	}

	parts := strings.Split(rest, ",")
	dest, err := ParseCallsign(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid destination callsign: %w", err)
	}

	f := &Frame{
		Destination: dest,
		Source:      src,
		Payload:     []byte(payload),
	}
	for _, p := range parts[1:] {
		if isQConstruct(p) {
			break
		}
		// The has-been-repeated marker is not part of the address.
		digi, err := ParseCallsign(strings.TrimSuffix(p, "*"))
		if err != nil {
			return nil, fmt.Errorf("invalid path element: %w", err)
		}
		f.Path = append(f.Path, digi)
	}

	return EncodeFrame(f)
}

// isQConstruct matches APRS-IS injection markers such as qAR or qAC.
func isQConstruct(s string) bool {
	return len(s) == 3 && s[0] == 'q' && s[1] == 'A'
}
