package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"

	"github.com/agroclim/etref/internal/et"
)

type AppConfig struct {
	CIMISAppKey    string
	GeocoderAPIKey string

	// FetchInterval controls how often ET is recomputed for each station;
	// FetchWindow is the trailing span recomputed on each run.
	FetchInterval time.Duration
	FetchWindow   time.Duration

	// Stations to track.
	Stations []et.Station

	// Computation options.
	Reference         et.Reference
	ClipNegativeDaily bool
	MaxGapHours       int

	// Store backend: "memory" or "influx".
	StoreBackend string
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	// In-memory store retention.
	StoreMaxHourly int           // max number of hourly estimates per station (0 = unlimited)
	StoreMaxAge    time.Duration // max age of hourly estimates (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.CIMISAppKey = os.Getenv("CIMIS_APP_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_API_KEY")

	interval, err := time.ParseDuration(getenvDefault("FETCH_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	window, err := time.ParseDuration(getenvDefault("FETCH_WINDOW", "48h"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_WINDOW: %w", err)
	}
	cfg.FetchWindow = window

	switch ref := et.Reference(getenvDefault("ET_REFERENCE", "short")); ref {
	case et.ReferenceShort, et.ReferenceTall:
		cfg.Reference = ref
	default:
		return nil, fmt.Errorf("invalid ET_REFERENCE: %q", ref)
	}

	cfg.ClipNegativeDaily = getenvBool("CLIP_NEGATIVE_DAILY", true)
	cfg.MaxGapHours = getenvInt("MAX_GAP_HOURS", 2)

	cfg.StoreBackend = getenvDefault("STORE_BACKEND", "memory")
	switch cfg.StoreBackend {
	case "memory":
	case "influx":
		cfg.InfluxURL = os.Getenv("INFLUX_URL")
		cfg.InfluxToken = os.Getenv("INFLUX_TOKEN")
		cfg.InfluxOrg = os.Getenv("INFLUX_ORG")
		cfg.InfluxBucket = getenvDefault("INFLUX_BUCKET", "etref")
		if cfg.InfluxURL == "" || cfg.InfluxToken == "" || cfg.InfluxOrg == "" {
			return nil, fmt.Errorf("influx backend requires INFLUX_URL, INFLUX_TOKEN and INFLUX_ORG")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q", cfg.StoreBackend)
	}

	cfg.StoreMaxHourly = getenvInt("STORE_MAX_HISTORY", 720) // roughly 30 days of hourly data
	maxAge, err := time.ParseDuration(getenvDefault("STORE_MAX_AGE", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge
	cfg.Port = getenvDefault("PORT", "8080")

	stations, err := ParseStations(os.Getenv("ETREF_STATIONS"))
	if err != nil {
		return nil, err
	}
	cfg.Stations = stations

	cityStations := loadCityStations(os.Getenv("ETREF_CITY_STATIONS"), cfg.GeocoderAPIKey)
	cfg.Stations = append(cfg.Stations, cityStations...)

	return cfg, nil
}

// ParseStations parses the ETREF_STATIONS value: semicolon-separated entries
// of "id,lat,lon,elevation,tzOffset[,cimisStation]".
func ParseStations(raw string) ([]et.Station, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var stations []et.Station
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		fields := strings.Split(entry, ",")
		if len(fields) < 5 || len(fields) > 6 {
			return nil, fmt.Errorf("invalid station entry %q: want id,lat,lon,elevation,tzOffset[,cimisStation]", entry)
		}

		nums := make([]float64, 4)
		for i, f := range fields[1:5] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid station entry %q: %w", entry, err)
			}
			nums[i] = v
		}

		st := et.Station{
			ID: strings.TrimSpace(fields[0]),
			Site: et.Site{
				LatitudeDeg:   nums[0],
				LongitudeDeg:  nums[1],
				ElevationM:    nums[2],
				TZOffsetHours: nums[3],
			},
		}
		if len(fields) == 6 {
			st.CIMISStation = strings.TrimSpace(fields[5])
		}
		stations = append(stations, st)
	}
	return stations, nil
}

// loadCityStations parses ETREF_CITY_STATIONS ("id,city,country,elevation,tzOffset"
// entries separated by ";") and resolves coordinates through the Google
// geocoding API. Stations that fail to resolve are skipped, not fatal.
func loadCityStations(raw, apiKey string) []et.Station {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if apiKey == "" {
		log.Printf("WARN: ETREF_CITY_STATIONS set but GOOGLE_API_KEY missing; skipping geocoded stations")
		return nil
	}
	geocoder.ApiKey = apiKey

	var stations []et.Station
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		fields := strings.Split(entry, ",")
		if len(fields) != 5 {
			log.Printf("WARN: invalid city station entry %q; want id,city,country,elevation,tzOffset", entry)
			continue
		}
		elev, err1 := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		tz, err2 := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
		if err1 != nil || err2 != nil {
			log.Printf("WARN: invalid city station entry %q", entry)
			continue
		}

		city := strings.TrimSpace(fields[1])
		country := strings.TrimSpace(fields[2])
		loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
		if err != nil {
			log.Printf("WARN: geocoding failed for %s, %s: %v", city, country, err)
			continue
		}

		stations = append(stations, et.Station{
			ID:      strings.TrimSpace(fields[0]),
			City:    city,
			Country: country,
			Site: et.Site{
				LatitudeDeg:   loc.Latitude,
				LongitudeDeg:  loc.Longitude,
				ElevationM:    elev,
				TZOffsetHours: tz,
			},
		})
	}
	return stations
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
