package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"

	ics "github.com/arran4/golang-ical"
)

// Transit times come back without an offset and are Korea local time
const timeLayout = "2006-01-02T15:04:05"

// GenerateICS writes one calendar event per transit path. Paths whose times
// cannot be parsed are skipped.
func GenerateICS(paths []flatten.TransitPath, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return fmt.Errorf("could not load timezone: %w", err)
	}

	for i, p := range paths {
		start, err := parseTime(p.DepartureTime, loc)
		if err != nil {
			continue // Skip invalid times
		}
		end, err := parseTime(p.ArrivalTime, loc)
		if err != nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%d-%d", start.UTC().Format("20060102T150405Z"), p.Index, i))
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetModifiedAt(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(summary(p))

		if len(p.Legs) > 0 && p.Legs[0].Line != nil {
			event.SetLocation(*p.Legs[0].Line)
		}
		event.SetDescription(description(p))
	}

	return cal.SerializeTo(w)
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(timeLayout, s, loc)
}

func summary(p flatten.TransitPath) string {
	lines := flatten.LineSequence(p)
	if lines == "" {
		lines = "Walk"
	}
	return fmt.Sprintf("🚌 %s (%.0f min)", lines, p.Duration)
}

func description(p flatten.TransitPath) string {
	var b strings.Builder
	if p.Label != "" {
		fmt.Fprintf(&b, "Labels: %s\n", p.Label)
	}
	fmt.Fprintf(&b, "Distance: %.0f m, transfers: %d, walking: %.0f min, waiting: %.0f min\n\n",
		p.Distance, p.TransferCount, p.DurationWalk, p.DurationWait)
	b.WriteString("Legs:\n")
	for i, l := range p.Legs {
		name := "Walk"
		if l.Line != nil && *l.Line != "" {
			name = *l.Line
		}
		fmt.Fprintf(&b, "%d. [%s] %s (%.0f min, %d stops)\n", i+1, l.Mode, name, l.Duration, l.StationsCount)
	}
	return b.String()
}
