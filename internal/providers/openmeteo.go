package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agroclim/etref/internal/et"
	"github.com/agroclim/etref/internal/solar"
)

// OpenMeteoProvider fetches hourly data from the Open-Meteo forecast API.
// Open-Meteo does not require an API key. It reports relative humidity, wind
// at 10 m and shortwave radiation, so actual vapor pressure, 2 m wind and
// net radiation are derived before handing records to the ET methods.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, st et.Station, from, to time.Time) ([]et.HourlyRecord, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", st.Site.LatitudeDeg))
		values.Set("longitude", fmt.Sprintf("%f", st.Site.LongitudeDeg))
		values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m,shortwave_radiation")
		values.Set("windspeed_unit", "ms")
		values.Set("timezone", "UTC")
		values.Set("start_date", from.UTC().Format("2006-01-02"))
		values.Set("end_date", to.UTC().Format("2006-01-02"))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time               []string  `json:"time"`
			Temperature2m      []float64 `json:"temperature_2m"`
			RelativeHumidity2m []float64 `json:"relative_humidity_2m"`
			WindSpeed10m       []float64 `json:"wind_speed_10m"`
			ShortwaveRadiation []float64 `json:"shortwave_radiation"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openmeteo decode: %w", err)
	}

	h := payload.Hourly
	n := len(h.Time)
	if len(h.Temperature2m) != n || len(h.RelativeHumidity2m) != n ||
		len(h.WindSpeed10m) != n || len(h.ShortwaveRadiation) != n {
		return nil, fmt.Errorf("openmeteo: ragged hourly arrays")
	}

	pos := solar.Position{
		LatitudeDeg:   st.Site.LatitudeDeg,
		LongitudeDeg:  st.Site.LongitudeDeg,
		TZOffsetHours: st.Site.TZOffsetHours,
	}
	siteLoc := st.Site.Location()

	var records []et.HourlyRecord
	for i := 0; i < n; i++ {
		ts, err := time.Parse("2006-01-02T15:04", h.Time[i])
		if err != nil {
			continue
		}
		ts = ts.UTC()
		if ts.Before(from) || ts.After(to) {
			continue
		}

		temp := h.Temperature2m[i]
		ea := et.ActualVaporPressure(temp, h.RelativeHumidity2m[i])

		records = append(records, et.HourlyRecord{
			Timestamp:   ts,
			AirTempC:    temp,
			VaporKPa:    ea,
			NetRadWm2:   solar.NetRadiationEstimate(h.ShortwaveRadiation[i], temp, ea, st.Site.ElevationM, ts.In(siteLoc), pos),
			WindSpeedMS: et.WindSpeedAt2m(h.WindSpeed10m[i], 10),
		})
	}
	return records, nil
}
