package aprs

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	addrLen    = 7 // Callsign(6) + SSID(1)
	callLen    = 6
	maxSSID    = 15
	ssidMask   = 0x1E
	ssidFiller = 0x60 // Reserved bits set, C/H and extension bits clear
)

// Callsign is an AX.25 station address.
type Callsign struct {
	Base string
	SSID int
}

func (c Callsign) String() string {
	if c.SSID > 0 {
		return fmt.Sprintf("%s-%d", c.Base, c.SSID)
	}
	return c.Base
}

// DecodeCallsign decodes a 7-byte AX.25 address field.
func DecodeCallsign(field []byte) (Callsign, error) {
	if len(field) < addrLen {
		return Callsign{}, fmt.Errorf("address field is %d bytes, want %d", len(field), addrLen)
	}
	base := strings.TrimSpace(addressChars(field))
	ssid := int(field[6]&ssidMask) >> 1
	return Callsign{Base: base, SSID: ssid}, nil
}

// addressChars returns the six callsign characters of an address field,
// shifted back to ASCII but with padding left in place.
func addressChars(field []byte) string {
	var b [callLen]byte
	for i := range b {
		b[i] = field[i] >> 1
	}
	return string(b[:])
}

// Encode packs the callsign into a 7-byte AX.25 address field.
func (c Callsign) Encode() ([addrLen]byte, error) {
	var field [addrLen]byte
	if len(c.Base) > callLen {
		return field, fmt.Errorf("callsign %q longer than %d characters", c.Base, callLen)
	}
	if c.SSID < 0 || c.SSID > maxSSID {
		return field, fmt.Errorf("SSID %d out of range", c.SSID)
	}
	for i := 0; i < callLen; i++ {
		ch := byte(' ')
		if i < len(c.Base) {
			ch = c.Base[i]
		}
		if ch > '~' {
			return field, fmt.Errorf("invalid character in callsign: 0x%02X", ch)
		}
		field[i] = ch << 1
	}
	field[6] = ssidFiller | byte(c.SSID)<<1
	return field, nil
}

// ParseCallsign parses the text form CALL or CALL-SSID.
func ParseCallsign(s string) (Callsign, error) {
	if len(s) == 0 {
		return Callsign{}, fmt.Errorf("empty callsign string")
	}
	base, ssidStr, hasSSID := strings.Cut(s, "-")
	if len(base) == 0 || len(base) > callLen {
		return Callsign{}, fmt.Errorf("invalid callsign %q", s)
	}
	c := Callsign{Base: base}
	if hasSSID {
		ssid, err := strconv.Atoi(ssidStr)
		if err != nil || ssid < 0 || ssid > maxSSID {
			return Callsign{}, fmt.Errorf("invalid SSID in callsign %q", s)
		}
		c.SSID = ssid
	}
	return c, nil
}
