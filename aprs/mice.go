package aprs

import (
	"fmt"
	"strings"
	"unicode"

	"aprsmap/packet"
)

// Mic-E data type identifiers (current and old format).
const (
	micECurrent byte = 0x60
	micEOld     byte = 0x1C

	micEOffset     = 28
	micEMinPayload = 4 // Type + lon degrees, minutes, hundredths
	micECommentOff = 9 // Type(1) + Lon(3) + Speed/Course(3) + Symbol(1) + Table(1)

	altitudeMarker = '}'
	altitudeOffset = 10000
)

// MicE is what the Mic-E decoder recovers from one frame.
type MicE struct {
	Lat      float64
	Lon      float64
	Comment  string
	Altitude *int // Meters
	Device   *packet.Device
}

// micEDigit recovers one latitude digit from a destination character.
func micEDigit(c byte) int {
	switch {
	case c >= 'P':
		return int(c - 'P')
	case c >= 'A':
		return int(c - 'A')
	}
	return int(c) - '0'
}

// digitsToNumber folds a decimal digit sequence, most significant first.
func digitsToNumber(digits []int) int {
	n := 0
	for _, d := range digits {
		n = n*10 + d
	}
	return n
}

// DecodeMicE decodes a Mic-E position from the destination field and payload.
func DecodeMicE(f *Frame) (*MicE, error) {
	dest := f.DestinationField
	info := f.Payload
	if len(dest) < callLen {
		return nil, fmt.Errorf("mic-e destination field too short")
	}
	if len(info) < micEMinPayload {
		return nil, fmt.Errorf("mic-e payload too short (%d bytes)", len(info))
	}

	digits := make([]int, callLen)
	for i := range digits {
		digits[i] = micEDigit(dest[i])
	}
	lat := float64(digitsToNumber(digits[0:2])) + float64(digitsToNumber(digits[2:6]))/6000
	// Only the fourth character is consulted for the sign; it also carries
	// a message bit, which is not separated out here.
	if dest[3] <= '9' {
		lat = -lat
	}

	lon := micELongitude(dest, info)

	comment, err := asciiText(info[min(micECommentOff, len(info)):])
	if err != nil {
		return nil, fmt.Errorf("mic-e comment: %w", err)
	}
	comment = strings.TrimRightFunc(comment, unicode.IsSpace)

	// The altitude may sit before or after the device signature, so look
	// on both sides of it.
	comment, altitude, found := ExtractAltitude(comment)
	comment, device := ExtractDevice(comment)
	comment, inner, innerFound := ExtractAltitude(comment)

	m := &MicE{
		Lat:     lat,
		Lon:     lon,
		Comment: comment,
		Device:  device,
	}
	switch {
	case found:
		m.Altitude = &altitude
	case innerFound:
		m.Altitude = &inner
	}
	return m, nil
}

func micELongitude(dest string, info []byte) float64 {
	deg := int(info[1]) - micEOffset
	if dest[4] >= 'P' {
		deg += 100
	}
	deg = correctLongitudeDegrees(deg)

	minutes := int(info[2]) - micEOffset
	if minutes >= 60 {
		minutes -= 60
	}
	hundredths := int(info[3]) - micEOffset

	lon := float64(deg) + float64(minutes)/60 + float64(hundredths)/6000
	if dest[5] >= 'P' {
		lon = -lon
	}
	return lon
}

// correctLongitudeDegrees undoes the Mic-E degree offsets.
func correctLongitudeDegrees(deg int) int {
	switch {
	case deg >= 180 && deg <= 189:
		return deg - 80
	case deg >= 190 && deg <= 199:
		return deg - 190
	}
	return deg
}

// ExtractAltitude pulls a "xxx}" base-91 altitude off the front of text.
func ExtractAltitude(text string) (string, int, bool) {
	if len(text) < 4 || text[3] != altitudeMarker {
		return text, 0, false
	}
	v, err := DecodeBase91(text[0:3])
	if err != nil {
		return text, 0, false
	}
	return text[4:], int(v) - altitudeOffset, true
}

func asciiText(b []byte) (string, error) {
	for i, c := range b {
		if c > unicode.MaxASCII {
			return "", fmt.Errorf("non-ASCII byte 0x%02X at offset %d", c, i)
		}
	}
	return string(b), nil
}
