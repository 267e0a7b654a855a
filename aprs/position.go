package aprs

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	compressedLen   = 10 // Table(1) + Lat(4) + Lon(4) + Symbol(1)
	uncompressedLen = 19 // DDMM.mmH + Table(1) + DDDMM.mmH + Symbol(1)
	timestampLen    = 7  // DDHHMMz, HHMMSSh or DDHHMMl

	compressedLatScale = 380926.0
	compressedLonScale = 190463.0
)

// Coordinates is a decoded APRS position block.
type Coordinates struct {
	Lat         float64
	Lon         float64
	SymbolTable byte
	Symbol      byte
	Comment     string
}

// isCompressed reports whether a position block uses the base-91 form.
// Those start with the symbol table identifier.
func isCompressed(text string) bool {
	return text[0] == '/' || text[0] == '\\'
}

// DecodeCoordinates decodes a compressed or uncompressed position block
// and returns whatever follows it as the comment.
func DecodeCoordinates(text string) (Coordinates, error) {
	if len(text) == 0 {
		return Coordinates{}, fmt.Errorf("empty position block")
	}
	if isCompressed(text) {
		return parseCompressed(text)
	}
	return parseUncompressed(text)
}

// parseCompressed handles /YYYYXXXX$ blocks.
func parseCompressed(text string) (Coordinates, error) {
	if len(text) < compressedLen {
		return Coordinates{}, fmt.Errorf("compressed position too short (%d bytes)", len(text))
	}
	y, err := DecodeBase91(text[1:5])
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse latitude: %w", err)
	}
	x, err := DecodeBase91(text[5:9])
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse longitude: %w", err)
	}
	return Coordinates{
		Lat:         90 - float64(y)/compressedLatScale,
		Lon:         -180 + float64(x)/compressedLonScale,
		SymbolTable: text[0],
		Symbol:      text[9],
		Comment:     text[compressedLen:],
	}, nil
}

// parseUncompressed handles DDMM.mmN/DDDMM.mmW$ blocks.
func parseUncompressed(text string) (Coordinates, error) {
	if len(text) < uncompressedLen {
		return Coordinates{}, fmt.Errorf("uncompressed position too short (%d bytes)", len(text))
	}
	lat, err := parseDegMin(text[0:2], text[2:7], text[7], 'S')
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lon, err := parseDegMin(text[9:12], text[12:17], text[17], 'W')
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse longitude: %w", err)
	}
	return Coordinates{
		Lat:         lat,
		Lon:         lon,
		SymbolTable: text[8],
		Symbol:      text[18],
		Comment:     text[uncompressedLen:],
	}, nil
}

// parseDegMin converts whole degrees plus decimal minutes to decimal degrees.
// The hemisphere character neg flips the sign; any other is positive.
func parseDegMin(degStr, minStr string, hemi, neg byte) (float64, error) {
	deg, err := strconv.Atoi(degStr)
	if err != nil {
		return 0, err
	}
	min, err := ambiguousMinutes(minStr)
	if err != nil {
		return 0, err
	}

	decDeg := float64(deg) + min/60.0
	if hemi == neg {
		decDeg = -decDeg
	}
	return decDeg, nil
}

// minutePlaces is the place value of each character of "MM.mm".
var minutePlaces = [...]float64{10, 1, 0, 0.1, 0.01}

// ambiguousMinutes parses "MM.mm" where position ambiguity may have blanked
// trailing digits with spaces. The result is the middle of the blanked
// range: "03.4 " is 3.45, "03.  " is 3.5 and "  .  " is 30.
func ambiguousMinutes(minStr string) (float64, error) {
	blank := strings.IndexByte(minStr, ' ')
	if blank == -1 {
		return strconv.ParseFloat(minStr, 64)
	}
	if len(minStr) != len(minutePlaces) || strings.TrimRight(minStr[blank:], " .") != "" {
		return 0, fmt.Errorf("invalid ambiguous minutes %q", minStr)
	}

	min, err := strconv.ParseFloat(strings.ReplaceAll(minStr, " ", "0"), 64)
	if err != nil {
		return 0, err
	}
	if blank == 0 {
		// Tens of minutes only run 0 to 5.
		return 30, nil
	}
	return min + 5*minutePlaces[blank], nil
}
