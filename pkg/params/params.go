// Package params serializes coordinate rows into the query strings sent to
// the Naver Maps endpoints. The query string doubles as the row's join key.
package params

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// ISO8601 is the departure time layout sent to the transit endpoint.
const ISO8601 = "2006-01-02T15:04:05"

// Driving route options accepted by the driving endpoint.
const (
	OptionOptimal      = "traoptimal"
	OptionFast         = "trafast"
	OptionComfort      = "tracomfort"
	OptionAvoidToll    = "traavoidtoll"
	OptionAvoidCarOnly = "traavoidcaronly"
)

// DefaultOptions are requested when the caller does not choose any.
var DefaultOptions = []string{OptionOptimal, OptionFast, OptionComfort}

// Transit routing modes
const (
	ModeRealtime = "TIME"
	ModeStatic   = "STATIC"
)

// ParseMode accepts a transit mode in any case and returns its canonical form.
func ParseMode(s string) (string, error) {
	switch m := strings.ToUpper(strings.TrimSpace(s)); m {
	case ModeRealtime, ModeStatic:
		return m, nil
	}
	return "", fmt.Errorf("mode must be %s or %s, got %q", ModeRealtime, ModeStatic, s)
}

// Columns maps the input table's column names to coordinate fields.
type Columns struct {
	StartLat      string
	StartLong     string
	GoalLat       string
	GoalLong      string
	DepartureTime string // optional; "" disables the lookup
}

// DefaultColumns returns the column names used when none are configured.
func DefaultColumns() Columns {
	return Columns{
		StartLat:      "startLat",
		StartLong:     "startLong",
		GoalLat:       "goalLat",
		GoalLong:      "goalLong",
		DepartureTime: "departureTime",
	}
}

// Point is a WGS84 coordinate
type Point struct {
	Lat  float64
	Long float64
}

// CoordinateRequest is one origin/destination pair with its request options.
type CoordinateRequest struct {
	Start         Point
	Goal          Point
	DepartureTime string
	Options       []string
	Mode          string
}

// Builder turns table rows into query strings.
type Builder struct {
	cols Columns
	now  func() time.Time
}

// NewBuilder creates a builder for the given column mapping.
func NewBuilder(cols Columns) *Builder {
	return &Builder{cols: cols, now: time.Now}
}

// WithClock replaces the clock used for missing departure times.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Request extracts the coordinates of one row. The departure time is left
// empty when the column is not configured, missing or null.
func (b *Builder) Request(r table.Record) (CoordinateRequest, error) {
	var req CoordinateRequest
	var err error

	if req.Start.Lat, err = coordinate(r, b.cols.StartLat); err != nil {
		return req, err
	}
	if req.Start.Long, err = coordinate(r, b.cols.StartLong); err != nil {
		return req, err
	}
	if req.Goal.Lat, err = coordinate(r, b.cols.GoalLat); err != nil {
		return req, err
	}
	if req.Goal.Long, err = coordinate(r, b.cols.GoalLong); err != nil {
		return req, err
	}

	if b.cols.DepartureTime != "" && !r.IsNull(b.cols.DepartureTime) {
		v, _ := r.Value(b.cols.DepartureTime)
		req.DepartureTime = strings.TrimSpace(table.Format(v))
	}
	return req, nil
}

// Driving builds start=..&goal=..&option=a:b:c for one row.
func (b *Builder) Driving(r table.Record, options []string) (string, error) {
	req, err := b.Request(r)
	if err != nil {
		return "", err
	}
	req.Options = options
	return DrivingQuery(req), nil
}

// Transit builds the point-to-point query for one row. A missing departure
// time is replaced with the current time at the moment of the call.
func (b *Builder) Transit(r table.Record, mode string) (string, error) {
	req, err := b.Request(r)
	if err != nil {
		return "", err
	}
	if req.DepartureTime == "" {
		req.DepartureTime = b.now().Format(ISO8601)
	}
	req.Mode = mode
	return TransitQuery(req), nil
}

// DrivingQuery serializes a driving request.
func DrivingQuery(req CoordinateRequest) string {
	return strings.Join([]string{
		"start=" + lonLat(req.Start),
		"goal=" + lonLat(req.Goal),
		"option=" + strings.Join(req.Options, ":"),
	}, "&")
}

// TransitQuery serializes a transit request. DepartureTime must be set.
func TransitQuery(req CoordinateRequest) string {
	return strings.Join([]string{
		"start=" + lonLat(req.Start),
		"goal=" + lonLat(req.Goal),
		"departureTime=" + req.DepartureTime,
		"crs=EPSG:4326",
		"mode=" + req.Mode,
		"lang=ko",
		"includeDetailOperation=true",
	}, "&")
}

// lonLat renders a point in the endpoint's longitude-first order.
func lonLat(p Point) string {
	return FormatCoordinate(p.Long) + "," + FormatCoordinate(p.Lat)
}

// FormatCoordinate renders the shortest decimal form, always keeping a
// fractional digit (127 -> "127.0").
func FormatCoordinate(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func coordinate(r table.Record, column string) (float64, error) {
	v, ok := r.Value(column)
	if !ok {
		return 0, fmt.Errorf("column %q not found", column)
	}
	switch x := v.(type) {
	case nil:
		return 0, fmt.Errorf("column %q is empty", column)
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: invalid coordinate %q", column, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("column %q: unsupported value %v", column, v)
	}
}
