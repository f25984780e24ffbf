package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStations(t *testing.T) {
	stations, err := ParseStations("davis,38.536,-121.776,18,-8,6; fresno,36.82,-119.74,103,-8")
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, "davis", stations[0].ID)
	assert.InDelta(t, 38.536, stations[0].Site.LatitudeDeg, 1e-9)
	assert.InDelta(t, -121.776, stations[0].Site.LongitudeDeg, 1e-9)
	assert.InDelta(t, 18.0, stations[0].Site.ElevationM, 1e-9)
	assert.InDelta(t, -8.0, stations[0].Site.TZOffsetHours, 1e-9)
	assert.Equal(t, "6", stations[0].CIMISStation)

	assert.Equal(t, "fresno", stations[1].ID)
	assert.Empty(t, stations[1].CIMISStation)
}

func TestParseStationsEmpty(t *testing.T) {
	stations, err := ParseStations("")
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestParseStationsInvalid(t *testing.T) {
	_, err := ParseStations("davis,38.5")
	assert.Error(t, err)

	_, err = ParseStations("davis,not-a-number,-121.8,18,-8")
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ETREF_STATIONS", "davis,38.536,-121.776,18,-8")
	t.Setenv("ETREF_CITY_STATIONS", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("FETCH_INTERVAL", "")
	t.Setenv("ET_REFERENCE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, "1h0m0s", cfg.FetchInterval.String())
	assert.Equal(t, "short", string(cfg.Reference))
	assert.True(t, cfg.ClipNegativeDaily)
	assert.Equal(t, 2, cfg.MaxGapHours)
	require.Len(t, cfg.Stations, 1)
}

func TestLoadRejectsBadReference(t *testing.T) {
	t.Setenv("ETREF_STATIONS", "")
	t.Setenv("ET_REFERENCE", "medium")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInfluxRequiresCredentials(t *testing.T) {
	t.Setenv("ETREF_STATIONS", "")
	t.Setenv("ET_REFERENCE", "")
	t.Setenv("STORE_BACKEND", "influx")
	t.Setenv("INFLUX_URL", "")
	t.Setenv("INFLUX_TOKEN", "")
	t.Setenv("INFLUX_ORG", "")

	_, err := Load()
	assert.Error(t, err)
}
