package flatten

import (
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// OptionSummary holds the route totals for one driving option.
type OptionSummary struct {
	Option    string
	Distance  int64 // meters
	Duration  int64 // milliseconds
	TollFare  int64
	TaxiFare  int64
	FuelPrice int64
}

// DrivingSummary is the wide record produced for one driving request.
type DrivingSummary struct {
	Params    string
	Timestamp string
	Options   []OptionSummary
}

// DrivingColumns returns the column set of a driving table for the options.
func DrivingColumns(options []string) []string {
	cols := []string{"params", "timestamp"}
	for _, o := range options {
		cols = append(cols,
			o+"Distance",
			o+"Duration",
			o+"TollFare",
			o+"TaxiFare",
			o+"FuelPrice",
		)
	}
	return cols
}

// SummarizeDriving extracts route.<option>[0].summary for every requested
// option. ok is false when the response has no currentDateTime.
func SummarizeDriving(resp *naver.DrivingResponse, params string, options []string) (DrivingSummary, bool, error) {
	if resp == nil || resp.CurrentDateTime == nil {
		return DrivingSummary{}, false, nil
	}

	s := DrivingSummary{
		Params:    params,
		Timestamp: *resp.CurrentDateTime,
		Options:   make([]OptionSummary, 0, len(options)),
	}
	for _, o := range options {
		routes, found := resp.Route[o]
		if !found || len(routes) == 0 {
			return DrivingSummary{}, false, &MissingRouteOptionError{Option: o}
		}
		sum := routes[0].Summary
		s.Options = append(s.Options, OptionSummary{
			Option:    o,
			Distance:  sum.Distance,
			Duration:  sum.Duration,
			TollFare:  sum.TollFare,
			TaxiFare:  sum.TaxiFare,
			FuelPrice: sum.FuelPrice,
		})
	}
	return s, true, nil
}

// Driving flattens a driving response into a single-row table.
func Driving(resp *naver.DrivingResponse, params string, options []string) (Result, error) {
	t := table.New(DrivingColumns(options)...)

	s, ok, err := SummarizeDriving(resp, params, options)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Outcome: Empty, Table: t}, nil
	}

	row := []any{s.Params, s.Timestamp}
	for _, o := range s.Options {
		row = append(row, o.Distance, o.Duration, o.TollFare, o.TaxiFare, o.FuelPrice)
	}
	if err := t.Append(row...); err != nil {
		return Result{}, err
	}
	return Result{Outcome: Success, Table: t}, nil
}
