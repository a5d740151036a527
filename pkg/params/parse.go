package params

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a driving or transit query string back into a request.
func Parse(query string) (CoordinateRequest, error) {
	var req CoordinateRequest
	var haveStart, haveGoal bool

	for _, seg := range strings.Split(query, "&") {
		k, v, found := strings.Cut(seg, "=")
		if !found {
			return req, fmt.Errorf("malformed query segment %q", seg)
		}

		var err error
		switch k {
		case "start":
			req.Start, err = parseLonLat(v)
			haveStart = true
		case "goal":
			req.Goal, err = parseLonLat(v)
			haveGoal = true
		case "option":
			if v != "" {
				req.Options = strings.Split(v, ":")
			}
		case "departureTime":
			req.DepartureTime = v
		case "mode":
			req.Mode = v
		}
		if err != nil {
			return req, fmt.Errorf("%s: %w", k, err)
		}
	}

	if !haveStart || !haveGoal {
		return req, fmt.Errorf("query must contain start and goal")
	}
	return req, nil
}

func parseLonLat(s string) (Point, error) {
	lon, lat, found := strings.Cut(s, ",")
	if !found {
		return Point{}, fmt.Errorf("expected <lon>,<lat>, got %q", s)
	}
	x, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q", lon)
	}
	y, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q", lat)
	}
	return Point{Lat: y, Long: x}, nil
}

// ParsePoint reads "lat,long", the order coordinates are usually copied in.
func ParsePoint(s string) (Point, error) {
	lat, long, found := strings.Cut(s, ",")
	if !found {
		return Point{}, fmt.Errorf("expected \"lat,long\", got %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q", lat)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(long), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q", long)
	}
	return Point{Lat: y, Long: x}, nil
}
