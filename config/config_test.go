package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[station]
callsign = "N0CALL"
passcode = 13023
gridsquare = "EN91kl"

[interface]
type = "APRSIS"

[radio]
frequency = 144800000
bandplan = "bands.yaml"

[web]
listen = ":8073"
`), 0o600)
	require.NoError(t, err)

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "N0CALL", conf.Station.Callsign)
	assert.Equal(t, 13023, conf.Station.Passcode)
	assert.Equal(t, "EN91kl", conf.Station.GridSquare)
	assert.Equal(t, "APRSIS", conf.Interface.Type)
	assert.Equal(t, int64(144800000), conf.Radio.Frequency)
	assert.Equal(t, "bands.yaml", conf.Radio.BandPlan)
	assert.Equal(t, ":8073", conf.Web.Listen)

	// Defaults survive for anything not set.
	assert.Equal(t, 9600, conf.Interface.Baud)
	assert.Equal(t, "rotate.aprs.net:14580", conf.Interface.Server)
	assert.Equal(t, "info", conf.Log.Level)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[station\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
