package aprs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"aprsmap/packet"
)

// micEFrame builds a Mic-E frame for 49°03.50'N 72°01.75'W with the
// given comment. Longitude minutes use the +60 encoding.
func micEFrame(t *testing.T, dest, comment string) *Frame {
	t.Helper()
	raw := buildFrame(t, dest, "N0CALL-7", nil, "`dYg"+"l!!"+">/"+comment)
	f, err := DecodeFrame(raw)
	require.NoError(t, err)
	return f
}

func TestDecodeMicE_Position(t *testing.T) {
	m, err := DecodeMicE(micEFrame(t, "490S5P", "Hello  "))
	require.NoError(t, err)
	assert.InDelta(t, 49.058333, m.Lat, 1e-6)
	assert.InDelta(t, -72.029167, m.Lon, 1e-6)
	assert.Equal(t, "Hello", m.Comment)
	assert.Nil(t, m.Altitude)
	assert.Nil(t, m.Device)
}

func TestDecodeMicE_Hemispheres(t *testing.T) {
	// Fourth character a digit: south. Sixth below 'P': east.
	m, err := DecodeMicE(micEFrame(t, "49035A", ""))
	require.NoError(t, err)
	assert.InDelta(t, -49.058333, m.Lat, 1e-6)
	assert.InDelta(t, 72.029167, m.Lon, 1e-6)
}

func TestDecodeMicE_LongitudeOffset(t *testing.T) {
	// Fifth character >= 'P' adds 100 degrees: 72+100 = 172.
	m, err := DecodeMicE(micEFrame(t, "490SUP", ""))
	require.NoError(t, err)
	assert.InDelta(t, 49.058333, m.Lat, 1e-6)
	assert.InDelta(t, -172.029167, m.Lon, 1e-6)
}

func TestDecodeMicE_DestinationWithSSID(t *testing.T) {
	m, err := DecodeMicE(micEFrame(t, "490S5P-2", ""))
	require.NoError(t, err)
	assert.InDelta(t, 49.058333, m.Lat, 1e-6)
}

func TestDecodeMicE_AltitudeAndDevice(t *testing.T) {
	// Altitude inside a Yaesu signature.
	m, err := DecodeMicE(micEFrame(t, "490S5P", "`!+{}Hi_b"))
	require.NoError(t, err)
	require.NotNil(t, m.Altitude)
	assert.Equal(t, -9000, *m.Altitude)
	assert.Equal(t, &packet.Device{Manufacturer: "Yaesu", Model: "VX-8"}, m.Device)
	assert.Equal(t, "Hi", m.Comment)

	// Altitude ahead of a Kenwood signature.
	m, err = DecodeMicE(micEFrame(t, "490S5P", "!+{}>hello="))
	require.NoError(t, err)
	require.NotNil(t, m.Altitude)
	assert.Equal(t, -9000, *m.Altitude)
	assert.Equal(t, &packet.Device{Manufacturer: "Kenwood", Model: "TH-D72"}, m.Device)
	assert.Equal(t, "hello=", m.Comment)
}

func TestDecodeMicE_FirstAltitudeWins(t *testing.T) {
	// "!!\"}" is 1 - 10000; the second altitude is left in the comment.
	m, err := DecodeMicE(micEFrame(t, "490S5P", "!!\"}]!+{}x"))
	require.NoError(t, err)
	require.NotNil(t, m.Altitude)
	assert.Equal(t, -9999, *m.Altitude)
	assert.Equal(t, &packet.Device{Manufacturer: "Kenwood", Model: "TM-D700"}, m.Device)
	assert.Equal(t, "x", m.Comment)
}

func TestDecodeMicE_Errors(t *testing.T) {
	f := micEFrame(t, "490S5P", "")
	f.Payload = f.Payload[:3]
	_, err := DecodeMicE(f)
	assert.Error(t, err)

	f = micEFrame(t, "490S5P", "caf\xe9")
	_, err = DecodeMicE(f)
	assert.Error(t, err)
}

func TestDecodeMicE_ShortPayloadNoComment(t *testing.T) {
	f := micEFrame(t, "490S5P", "")
	f.Payload = f.Payload[:4]
	m, err := DecodeMicE(f)
	require.NoError(t, err)
	assert.Equal(t, "", m.Comment)
}

func TestMicEDigit(t *testing.T) {
	assert.Equal(t, 0, micEDigit('0'))
	assert.Equal(t, 9, micEDigit('9'))
	assert.Equal(t, 0, micEDigit('A'))
	assert.Equal(t, 9, micEDigit('J'))
	assert.Equal(t, 0, micEDigit('P'))
	assert.Equal(t, 9, micEDigit('Y'))
	assert.Equal(t, -16, micEDigit(' '))
}

func TestCorrectLongitudeDegrees(t *testing.T) {
	assert.Equal(t, 100, correctLongitudeDegrees(180))
	assert.Equal(t, 109, correctLongitudeDegrees(189))
	assert.Equal(t, 0, correctLongitudeDegrees(190))
	assert.Equal(t, 9, correctLongitudeDegrees(199))
	assert.Equal(t, 179, correctLongitudeDegrees(179))
	assert.Equal(t, 200, correctLongitudeDegrees(200))

	rapid.Check(t, func(t *rapid.T) {
		var deg = rapid.IntRange(-28, 327).Draw(t, "deg")
		var got = correctLongitudeDegrees(deg)

		switch {
		case deg >= 180 && deg <= 189:
			assert.Equal(t, deg-80, got)
		case deg >= 190 && deg <= 199:
			assert.Equal(t, deg-190, got)
		default:
			assert.Equal(t, deg, got)
		}
	})
}

func TestExtractAltitude(t *testing.T) {
	rest, alt, ok := ExtractAltitude("!+{}rest")
	assert.True(t, ok)
	assert.Equal(t, -9000, alt)
	assert.Equal(t, "rest", rest)

	rest, _, ok = ExtractAltitude("abc")
	assert.False(t, ok)
	assert.Equal(t, "abc", rest)

	rest, _, ok = ExtractAltitude("abcd}")
	assert.False(t, ok)
	assert.Equal(t, "abcd}", rest)
}
