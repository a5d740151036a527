package naver

import "encoding/json"

// DrivingResponse is the body returned by /map-direction/v1/driving
type DrivingResponse struct {
	Code            int                       `json:"code"`
	Message         string                    `json:"message"`
	CurrentDateTime *string                   `json:"currentDateTime"`
	Route           map[string][]DrivingRoute `json:"route"`
}

// DrivingRoute is one route computed for a route option (e.g. "trafast")
type DrivingRoute struct {
	Summary DrivingSummary `json:"summary"`
}

// DrivingSummary holds the totals of a driving route
type DrivingSummary struct {
	Distance  int64 `json:"distance"`  // meters
	Duration  int64 `json:"duration"`  // milliseconds
	TollFare  int64 `json:"tollFare"`  // won
	TaxiFare  int64 `json:"taxiFare"`  // won
	FuelPrice int64 `json:"fuelPrice"` // won
}

// TransitResponse is the body returned by the point-to-point transit endpoint
type TransitResponse struct {
	CurrentDateTime *string        `json:"currentDateTime"`
	Status          string         `json:"status"` // CITY | INTERCITY
	Context         TransitContext `json:"context"`
	Paths           []TransitPath  `json:"paths"`
	StaticPaths     []TransitPath  `json:"staticPaths"`
}

// TransitContext carries server side request metadata
type TransitContext struct {
	CurrentDateTime string     `json:"currentDateTime"`
	ServiceDay      ServiceDay `json:"serviceDay"`
}

// ServiceDay is the timetable day type (weekday, Saturday, Sunday/holiday)
type ServiceDay struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TransitPath is one itinerary alternative. Measures are not guaranteed to
// be whole numbers.
type TransitPath struct {
	Mode            *string     `json:"mode"` // TIME (realtime), STATIC, or null
	Type            string      `json:"type"`
	PathLabels      []PathLabel `json:"pathLabels"`
	DepartureTime   string      `json:"departureTime"`
	ArrivalTime     string      `json:"arrivalTime"`
	Distance        float64     `json:"distance"`        // meters
	Duration        float64     `json:"duration"`        // minutes
	WaitingDuration float64     `json:"waitingDuration"` // minutes
	WalkingDuration float64     `json:"walkingDuration"` // minutes
	Fare            float64     `json:"fare"`            // won
	TransferCount   int64       `json:"transferCount"`
	Legs            []Leg       `json:"legs"`
}

// PathLabel is a badge attached to a path, e.g. "최소시간"
type PathLabel struct {
	LabelText string `json:"labelText"`
}

// Leg groups the steps of a path
type Leg struct {
	Steps []Step `json:"steps"`
}

// Step is a single continuous part of a path (walking, one bus ride, ...)
type Step struct {
	Type          string            `json:"type"` // WALKING, BUS, SUBWAY, ...
	DepartureTime string            `json:"departureTime"`
	ArrivalTime   string            `json:"arrivalTime"`
	Distance      float64           `json:"distance"` // meters
	Duration      float64           `json:"duration"` // minutes
	Routes        []Route           `json:"routes"`
	Stations      []json.RawMessage `json:"stations"`
}

// Route is a bus or subway line serving a step
type Route struct {
	Name string    `json:"name"`
	Type RouteType `json:"type"`
}

// RouteType names the line category, e.g. "간선" or "수도권 2호선"
type RouteType struct {
	Name string `json:"name"`
}
