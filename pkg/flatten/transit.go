package flatten

import (
	"math"
	"strings"

	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// StatusCity is the only transit status that is flattened.
const StatusCity = "CITY"

const walking = "WALKING"

// TransitLeg is one step of a transit path.
type TransitLeg struct {
	Index         int
	Mode          string
	DepartureTime string
	ArrivalTime   string
	Distance      float64 // meters
	Duration      float64 // minutes
	// Line and LineType are nil for walking legs.
	Line          *string
	LineType      *string
	LineCount     int
	StationsCount int
}

// TransitPath is one itinerary with its legs.
type TransitPath struct {
	Index         int
	Method        *string // TIME, STATIC or null
	Label         string
	Mode          string
	DepartureTime string
	ArrivalTime   string
	Distance      float64 // meters
	Duration      float64 // minutes
	DurationWait  float64 // minutes
	DurationWalk  float64 // minutes
	Fare          float64
	TransferCount int64
	Legs          []TransitLeg
}

// TransitColumns is the fixed column order of a transit table.
var TransitColumns = []string{
	"params", "status", "timestamp", "serviceDay",
	"lnkdIndex", "lnkdMethod", "lnkdLabel", "lnkdMode",
	"lnkdDepartureTime", "lnkdArrivalTime", "lnkdDistance", "lnkdDuration",
	"lnkdDurationWait", "lnkdDurationWalk", "lnkdFare", "lnkdTransferCount",
	"legIndex", "legMode", "legDepartureTime", "legArrivalTime",
	"legDistance", "legDuration", "legLine", "legLineType",
	"legLineCount", "legStationsCount",
}

// TransitPaths returns the paths of "paths" followed by "staticPaths".
// Path indices restart at 0 in each collection. Only the first leg group
// of each path is read.
func TransitPaths(resp *naver.TransitResponse) []TransitPath {
	if resp == nil {
		return nil
	}

	var out []TransitPath
	for _, coll := range [][]naver.TransitPath{resp.Paths, resp.StaticPaths} {
		for idx, p := range coll {
			out = append(out, transitPath(idx, p))
		}
	}
	return out
}

func transitPath(idx int, p naver.TransitPath) TransitPath {
	labels := make([]string, 0, len(p.PathLabels))
	for _, l := range p.PathLabels {
		labels = append(labels, l.LabelText)
	}

	tp := TransitPath{
		Index:         idx,
		Method:        p.Mode,
		Label:         strings.Join(distinct(labels), ";"),
		Mode:          p.Type,
		DepartureTime: p.DepartureTime,
		ArrivalTime:   p.ArrivalTime,
		Distance:      p.Distance,
		Duration:      p.Duration,
		DurationWait:  p.WaitingDuration,
		DurationWalk:  p.WalkingDuration,
		Fare:          p.Fare,
		TransferCount: p.TransferCount,
	}
	if len(p.Legs) == 0 {
		return tp
	}

	for idx2, s := range p.Legs[0].Steps {
		tp.Legs = append(tp.Legs, transitLeg(idx2, s))
	}
	return tp
}

func transitLeg(idx int, s naver.Step) TransitLeg {
	leg := TransitLeg{
		Index:         idx,
		Mode:          s.Type,
		DepartureTime: s.DepartureTime,
		ArrivalTime:   s.ArrivalTime,
		Distance:      s.Distance,
		Duration:      s.Duration,
		StationsCount: len(s.Stations),
	}
	if s.Type == walking {
		return leg
	}

	names := make([]string, 0, len(s.Routes))
	types := make([]string, 0, len(s.Routes))
	for _, r := range s.Routes {
		names = append(names, r.Name)
		types = append(types, r.Type.Name)
	}
	names = distinct(names)
	types = distinct(types)

	line := strings.Join(names, ";")
	lineType := strings.Join(types, ";")
	leg.Line = &line
	leg.LineType = &lineType
	leg.LineCount = len(names)
	return leg
}

// Transit flattens a transit response into one row per leg, each row
// carrying its path and the response context.
func Transit(resp *naver.TransitResponse, params string) Result {
	t := table.New(TransitColumns...)

	if resp == nil || resp.CurrentDateTime == nil {
		return Result{Outcome: Empty, Table: t}
	}
	if resp.Status != StatusCity {
		return Result{Outcome: Unsupported, Status: resp.Status, Table: t}
	}

	ctx := []any{params, resp.Status, resp.Context.CurrentDateTime, resp.Context.ServiceDay.Name}
	for _, p := range TransitPaths(resp) {
		path := []any{
			p.Index, nullable(p.Method), p.Label, p.Mode,
			p.DepartureTime, p.ArrivalTime, number(p.Distance), number(p.Duration),
			number(p.DurationWait), number(p.DurationWalk), number(p.Fare), p.TransferCount,
		}
		for _, l := range p.Legs {
			row := make([]any, 0, len(TransitColumns))
			row = append(row, ctx...)
			row = append(row, path...)
			row = append(row,
				l.Index, l.Mode, l.DepartureTime, l.ArrivalTime,
				number(l.Distance), number(l.Duration), nullable(l.Line), nullable(l.LineType),
				l.LineCount, l.StationsCount,
			)
			t.Rows = append(t.Rows, row)
		}
	}
	return Result{Outcome: Success, Status: resp.Status, Table: t}
}

// distinct keeps the first occurrence of every value.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// number keeps whole values as int64 so they print without a fraction.
func number(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
