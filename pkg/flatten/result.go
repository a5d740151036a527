// Package flatten turns decoded Naver Maps responses into flat, fixed-column
// records and tables.
package flatten

import (
	"fmt"

	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// Outcome classifies a response that did not fail outright.
type Outcome int

const (
	// Success means the response produced rows.
	Success Outcome = iota
	// Empty means the response had no currentDateTime, which the endpoints
	// send when they have nothing to return.
	Empty
	// Unsupported means the response is valid but of a kind this package
	// does not flatten (INTERCITY transit results).
	Unsupported
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Empty:
		return "empty"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the flattened form of one response.
type Result struct {
	Outcome Outcome
	// Status is the transit response status, set for transit results.
	Status string
	// Table always carries the full column set, with zero rows unless
	// Outcome is Success.
	Table *table.Table
}

// MissingRouteOptionError is returned when a requested driving option is
// absent from the response.
type MissingRouteOptionError struct {
	Option string
}

func (e *MissingRouteOptionError) Error() string {
	return fmt.Sprintf("route option %q missing from driving response", e.Option)
}
