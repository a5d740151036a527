package params

import (
	"fmt"
	"strings"

	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// MarkerColumns maps the input table's columns to static map markers.
type MarkerColumns struct {
	Lat   string
	Long  string
	Label string // optional
}

// DefaultMarkerColumns returns the marker column names used when none are configured.
func DefaultMarkerColumns() MarkerColumns {
	return MarkerColumns{Lat: "latitude", Long: "longitude"}
}

// StaticMap builds w=..&h=..&markers=..&markers=.. with one marker per row.
func StaticMap(t *table.Table, width, height int, cols MarkerColumns) (string, error) {
	segs := []string{fmt.Sprintf("w=%d", width), fmt.Sprintf("h=%d", height)}

	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		lat, err := coordinate(r, cols.Lat)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}
		long, err := coordinate(r, cols.Long)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}

		marker := "markers=type:t|pos:" + FormatCoordinate(long) + " " + FormatCoordinate(lat)
		if cols.Label != "" {
			v, _ := r.Value(cols.Label)
			marker += "|label:" + table.Format(v)
		}
		segs = append(segs, marker)
	}
	return strings.Join(segs, "&"), nil
}
