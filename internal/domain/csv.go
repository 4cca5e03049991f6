package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the export column order: identity first, then the two display
// metrics, then the optional descriptive fields.
var csvHeader = []string{"callsign", "speed_kmh", "altitude_m", "origin_country", "vertical_rate_mps"}

// WriteCSV writes the set as UTF-8 delimited text, one row per observation,
// header row included. Speed is exported in km/h, matching the API's display
// unit.
func WriteCSV(w io.Writer, set ObservationSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, o := range set.Observations {
		row := []string{
			o.Callsign,
			strconv.FormatFloat(o.SpeedMps*MpsToKmh, 'f', 1, 64),
			strconv.FormatFloat(o.AltitudeM, 'f', 0, 64),
			o.OriginCountry,
			strconv.FormatFloat(o.VerticalRateMps, 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
