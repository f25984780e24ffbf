// Package series reads hourly meteorological CSV input and writes the
// computed hourly and daily ET series back out as CSV.
package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agroclim/etref/internal/et"
	"github.com/agroclim/etref/internal/solar"
)

// Column aliases accepted in the input header, all compared lowercased.
var (
	colTime  = []string{"timestamp", "time", "datetime"}
	colTemp  = []string{"air_temp_c", "t_c", "temperature_c", "temp_c"}
	colVapor = []string{"vapor_kpa", "ea_kpa", "vapor_pressure_kpa"}
	colRH    = []string{"rh", "rh_pct", "relative_humidity_pct"}
	colNet   = []string{"net_rad_wm2", "rn_wm2", "net_radiation_wm2"}
	colShort = []string{"shortwave_wm2", "rs_wm2", "solar_wm2"}
	colWind  = []string{"wind_ms", "u2_ms", "wind_speed_ms"}
)

// ReadHourly parses an hourly met CSV into records ready for the ET methods.
// The header defines the columns; vapor pressure may be given directly or as
// relative humidity, radiation as net or shortwave (net radiation is then
// estimated from solar geometry), and wind is adjusted from windHeightM down
// to 2 m. Naive timestamps are interpreted in site-local time.
func ReadHourly(r io.Reader, site et.Site, windHeightM float64) ([]et.HourlyRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	tsCol, ok := findColumn(idx, colTime)
	if !ok {
		return nil, fmt.Errorf("missing timestamp column (one of %s)", strings.Join(colTime, ", "))
	}
	tempCol, ok := findColumn(idx, colTemp)
	if !ok {
		return nil, fmt.Errorf("missing temperature column (one of %s)", strings.Join(colTemp, ", "))
	}
	windCol, ok := findColumn(idx, colWind)
	if !ok {
		return nil, fmt.Errorf("missing wind column (one of %s)", strings.Join(colWind, ", "))
	}

	vaporCol, hasVapor := findColumn(idx, colVapor)
	rhCol, hasRH := findColumn(idx, colRH)
	if !hasVapor && !hasRH {
		return nil, fmt.Errorf("missing humidity column: need vapor pressure or relative humidity")
	}

	netCol, hasNet := findColumn(idx, colNet)
	shortCol, hasShort := findColumn(idx, colShort)
	if !hasNet && !hasShort {
		return nil, fmt.Errorf("missing radiation column: need net or shortwave radiation")
	}

	pos := solar.Position{
		LatitudeDeg:   site.LatitudeDeg,
		LongitudeDeg:  site.LongitudeDeg,
		TZOffsetHours: site.TZOffsetHours,
	}
	loc := site.Location()

	var records []et.HourlyRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		ts, err := parseTimestamp(row[tsCol], loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		temp, err := parseFloat(row, tempCol, line)
		if err != nil {
			return nil, err
		}
		wind, err := parseFloat(row, windCol, line)
		if err != nil {
			return nil, err
		}

		var ea float64
		if hasVapor {
			ea, err = parseFloat(row, vaporCol, line)
		} else {
			var rh float64
			rh, err = parseFloat(row, rhCol, line)
			ea = et.ActualVaporPressure(temp, rh)
		}
		if err != nil {
			return nil, err
		}

		var rn float64
		if hasNet {
			rn, err = parseFloat(row, netCol, line)
		} else {
			var rs float64
			rs, err = parseFloat(row, shortCol, line)
			rn = solar.NetRadiationEstimate(rs, temp, ea, site.ElevationM, ts.In(loc), pos)
		}
		if err != nil {
			return nil, err
		}

		records = append(records, et.HourlyRecord{
			Timestamp:   ts.UTC(),
			AirTempC:    temp,
			VaporKPa:    ea,
			NetRadWm2:   rn,
			WindSpeedMS: et.WindSpeedAt2m(wind, windHeightM),
		})
	}
	return records, nil
}

// WriteHourly writes hourly estimates with all intermediate components, one
// row per hour. method filters which per-method columns appear.
func WriteHourly(w io.Writer, estimates []et.HourlyEstimate, method et.Method) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	wantCimis := method == et.MethodCIMIS || method == et.MethodBoth
	wantPenman := method == et.MethodPenman || method == et.MethodBoth

	header := []string{"timestamp", "air_temp_c", "vapor_kpa", "net_rad_wm2", "wind_ms"}
	if wantCimis {
		header = append(header, "cimis_mm_hr")
	}
	if wantPenman {
		header = append(header, "penman_mm_hr")
	}
	header = append(header,
		"es_kpa", "vpd_kpa", "delta_kpa_c", "pressure_kpa", "gamma_kpa_c",
		"weighting", "net_rad_mm_hr", "wind_fn")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range estimates {
		row := []string{
			e.Record.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(e.Record.AirTempC),
			formatFloat(e.Record.VaporKPa),
			formatFloat(e.Record.NetRadWm2),
			formatFloat(e.Record.WindSpeedMS),
		}
		if wantCimis {
			row = append(row, formatFloat(e.CimisMmHr))
		}
		if wantPenman {
			row = append(row, formatFloat(e.PenmanMmHr))
		}
		row = append(row,
			formatFloat(e.Components.EsKPa),
			formatFloat(e.Components.VPDKPa),
			formatFloat(e.Components.DeltaKPaC),
			formatFloat(e.Components.PressureKPa),
			formatFloat(e.Components.GammaKPaC),
			formatFloat(e.Components.Weighting),
			formatFloat(e.Components.NetRadMMHr),
			formatFloat(e.Components.WindFn),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDaily writes daily totals, one row per site-local day. method filters
// which per-method columns appear; the Hargreaves-Samani column is always
// present.
func WriteDaily(w io.Writer, days []et.DailyETo, method et.Method) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	wantCimis := method == et.MethodCIMIS || method == et.MethodBoth
	wantPenman := method == et.MethodPenman || method == et.MethodBoth

	header := []string{"date"}
	if wantCimis {
		header = append(header, "cimis_mm")
	}
	if wantPenman {
		header = append(header, "penman_mm")
	}
	header = append(header, "hargreaves_mm", "hours", "tmax_c", "tmin_c")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, d := range days {
		row := []string{d.Date.Format("2006-01-02")}
		if wantCimis {
			row = append(row, formatFloat(d.CimisMm))
		}
		if wantPenman {
			row = append(row, formatFloat(d.PenmanMm))
		}
		row = append(row,
			formatFloat(d.HargreavesMm),
			strconv.Itoa(d.Hours),
			formatFloat(d.TMaxC),
			formatFloat(d.TMinC),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func findColumn(idx map[string]int, aliases []string) (int, bool) {
	for _, a := range aliases {
		if i, ok := idx[a]; ok {
			return i, true
		}
	}
	return 0, false
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	for _, layout := range timestampLayouts[1:] {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func parseFloat(row []string, col, line int) (float64, error) {
	if col >= len(row) {
		return 0, fmt.Errorf("line %d: short row", line)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", line, err)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
