package aprs

import (
	"aprsmap/packet"
)

// Mic-E comments may carry a device signature: one leading character and,
// for most vendors, two trailing characters.

// suffixModels maps the final character of a two-character suffix to a model.
type suffixModels map[byte]string

func (s suffixModels) lookup(c byte) string {
	if m, ok := s[c]; ok {
		return m
	}
	return "Unknown"
}

var (
	yaesuModels = suffixModels{
		'b': "VX-8",
		'"': "FTM-350",
		'#': "VX-8G",
		'$': "FT1D",
		'%': "FTM-400DR",
		')': "FTM-100D",
		'(': "FT2D",
		'0': "FT3D",
	}
	anytoneModels = suffixModels{
		'5': "D578UV",
		'8': "D878UV",
	}
	byonicsModels = suffixModels{
		'3': "TinyTrack3",
		'4': "TinyTrack4",
	}
	scsModels = suffixModels{
		'4': "DR-7400 modem",
		'8': "DR-7800 modem",
	}
)

// ExtractDevice strips a device signature from a Mic-E comment.
// A nil device means the comment carried no signature at all; a
// backtick or apostrophe prefix with an unrecognised suffix yields
// packet.UnknownDevice.
func ExtractDevice(comment string) (string, *packet.Device) {
	if len(comment) == 0 {
		return comment, nil
	}

	switch comment[0] {
	case '>':
		return comment[1:], kenwoodHandheld(comment)
	case ']':
		model := "TM-D700"
		if comment[len(comment)-1] == '=' {
			model = "TM-D710"
		}
		return comment[1:], &packet.Device{Manufacturer: "Kenwood", Model: model}
	case '`', '\'':
		if len(comment) < 3 {
			dev := packet.UnknownDevice
			return "", &dev
		}
		dev := suffixDevice(comment[len(comment)-2], comment[len(comment)-1])
		return comment[1 : len(comment)-2], &dev
	}
	return comment, nil
}

func kenwoodHandheld(comment string) *packet.Device {
	model := "TH-D7A"
	switch comment[len(comment)-1] {
	case '=':
		model = "TH-D72"
	case '^':
		model = "TH-D74"
	}
	return &packet.Device{Manufacturer: "Kenwood", Model: model}
}

// suffixDevice matches the two trailing characters, in table order.
func suffixDevice(a, b byte) packet.Device {
	switch {
	case a == '_':
		return packet.Device{Manufacturer: "Yaesu", Model: yaesuModels.lookup(b)}
	case a == ' ' && b == 'X':
		return packet.Device{Manufacturer: "SainSonic", Model: "AP510"}
	case a == '(':
		return packet.Device{Manufacturer: "Anytone", Model: anytoneModels.lookup(b)}
	case a == '|':
		return packet.Device{Manufacturer: "Byonics", Model: byonicsModels.lookup(b)}
	case a == '^' && b == 'v':
		return packet.Device{Manufacturer: "HinzTec", Model: "anyfrog"}
	case a == ':':
		return packet.Device{Manufacturer: "SCS GmbH & Co.", Model: scsModels.lookup(b)}
	case a == '~' && b == 'v':
		return packet.Device{Manufacturer: "Other", Model: "Other"}
	}
	return packet.UnknownDevice
}
