package aprs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePasscode(t *testing.T) {
	code, err := CalculatePasscode("N0CALL")
	require.NoError(t, err)
	assert.Equal(t, 13023, code)

	// SSID and case do not matter.
	code2, err := CalculatePasscode("n0call-9")
	require.NoError(t, err)
	assert.Equal(t, code, code2)

	_, err = CalculatePasscode("TOOLONGCALL")
	assert.Error(t, err)
}
