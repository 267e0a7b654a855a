package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	assert.Equal(t, "aprsmap", New(0, "").Title())
	assert.Equal(t, "aprsmap · 144.390 MHz (2m)", New(144390000, "2m").Title())
	assert.Equal(t, "aprsmap · 14.105 MHz", New(14105000, "").Title())
}
