package location

import (
	"fmt"
	"strings"
)

// GridSquareToLatLon returns the centre of a 4- or 6-character Maidenhead
// locator such as "EN91" or "EN91kl".
func GridSquareToLatLon(grid string) (lat, lon float64, err error) {
	grid = strings.ToUpper(grid)
	if len(grid) != 4 && len(grid) != 6 {
		return 0, 0, fmt.Errorf("gridsquare must be 4 or 6 characters: %s", grid)
	}
	if !between(grid[0], 'A', 'R') || !between(grid[1], 'A', 'R') ||
		!between(grid[2], '0', '9') || !between(grid[3], '0', '9') {
		return 0, 0, fmt.Errorf("invalid gridsquare: %s", grid)
	}

	// Field: 20° x 10°, square: 2° x 1°
	lon = float64(grid[0]-'A')*20 - 180 + float64(grid[2]-'0')*2
	lat = float64(grid[1]-'A')*10 - 90 + float64(grid[3]-'0')

	if len(grid) == 4 {
		return lat + 0.5, lon + 1, nil
	}

	if !between(grid[4], 'A', 'X') || !between(grid[5], 'A', 'X') {
		return 0, 0, fmt.Errorf("invalid gridsquare subsquare: %s", grid)
	}
	// Subsquare: 5' x 2.5'
	lon += float64(grid[4]-'A')*(2.0/24) + 1.0/24
	lat += float64(grid[5]-'A')*(1.0/24) + 0.5/24
	return lat, lon, nil
}

func between(c, lo, hi byte) bool {
	return c >= lo && c <= hi
}
