package footer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	m := New("mapdata/states.shp")
	assert.Equal(t, " Last: - | Decoded: 0 | Zoom: 1.0x | states.shp | q to quit", m.Status())

	m.SetLastPacket("N0CALL")
	m.SetLastPacket("K1ABC-7")
	m.SetZoom(2.5)
	assert.Equal(t, " Last: K1ABC-7 | Decoded: 2 | Zoom: 2.5x | states.shp | q to quit", m.Status())
}
