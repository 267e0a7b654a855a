package aprs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aprsmap/packet"
)

func TestExtractDevice(t *testing.T) {
	tests := []struct {
		in           string
		rest         string
		manufacturer string
		model        string
	}{
		{">text=", "text=", "Kenwood", "TH-D72"},
		{">text^", "text^", "Kenwood", "TH-D74"},
		{">text", "text", "Kenwood", "TH-D7A"},
		{"]text=", "text=", "Kenwood", "TM-D710"},
		{"]text", "text", "Kenwood", "TM-D700"},
		{"`B_b", "B", "Yaesu", "VX-8"},
		{"`x_\"", "x", "Yaesu", "FTM-350"},
		{"'x_#", "x", "Yaesu", "VX-8G"},
		{"`x_$", "x", "Yaesu", "FT1D"},
		{"`x_%", "x", "Yaesu", "FTM-400DR"},
		{"`x_)", "x", "Yaesu", "FTM-100D"},
		{"`x_(", "x", "Yaesu", "FT2D"},
		{"`x_0", "x", "Yaesu", "FT3D"},
		{"`x_z", "x", "Yaesu", "Unknown"},
		{"`x X", "x", "SainSonic", "AP510"},
		{"`x(5", "x", "Anytone", "D578UV"},
		{"`x(8", "x", "Anytone", "D878UV"},
		{"`x(1", "x", "Anytone", "Unknown"},
		{"`x|3", "x", "Byonics", "TinyTrack3"},
		{"'x|4", "x", "Byonics", "TinyTrack4"},
		{"`x|9", "x", "Byonics", "Unknown"},
		{"`x^v", "x", "HinzTec", "anyfrog"},
		{"`x:4", "x", "SCS GmbH & Co.", "DR-7400 modem"},
		{"`x:8", "x", "SCS GmbH & Co.", "DR-7800 modem"},
		{"`x:0", "x", "SCS GmbH & Co.", "Unknown"},
		{"`x~v", "x", "Other", "Other"},
	}

	for _, tt := range tests {
		rest, dev := ExtractDevice(tt.in)
		if assert.NotNil(t, dev, tt.in) {
			assert.Equal(t, tt.manufacturer, dev.Manufacturer, tt.in)
			assert.Equal(t, tt.model, dev.Model, tt.in)
		}
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}

func TestExtractDevice_UnknownSignature(t *testing.T) {
	rest, dev := ExtractDevice("`hello!!")
	assert.Equal(t, "hello", rest)
	if assert.NotNil(t, dev) {
		assert.Equal(t, packet.UnknownDevice, *dev)
		assert.False(t, dev.Known())
	}

	rest, dev = ExtractDevice("`a")
	assert.Equal(t, "", rest)
	assert.NotNil(t, dev)
}

func TestExtractDevice_NoSignature(t *testing.T) {
	rest, dev := ExtractDevice("plain comment")
	assert.Nil(t, dev)
	assert.Equal(t, "plain comment", rest)

	rest, dev = ExtractDevice("")
	assert.Nil(t, dev)
	assert.Equal(t, "", rest)
}
