package aprs

import (
	"fmt"
	"strings"
)

const passcodeSeed = 0x73e2

// CalculatePasscode returns the APRS-IS login passcode for a callsign.
// The SSID and letter case are ignored.
func CalculatePasscode(callsign string) (int, error) {
	base, _, _ := strings.Cut(strings.ToUpper(callsign), "-")
	if len(base) == 0 || len(base) > callLen {
		return 0, fmt.Errorf("invalid callsign format for passcode: %s", callsign)
	}

	hash := passcodeSeed
	for i := 0; i < len(base); i++ {
		// Even positions go in the high byte, odd ones in the low byte.
		if i%2 == 0 {
			hash ^= int(base[i]) << 8
		} else {
			hash ^= int(base[i])
		}
	}
	return hash & 0x7fff, nil
}
