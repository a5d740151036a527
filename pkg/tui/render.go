package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"
)

var (
	lineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	fareStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	modeCaser = cases.Title(language.English)
)

var optionNames = map[string]string{
	"traoptimal":      "Optimal",
	"trafast":         "Fastest",
	"tracomfort":      "Comfort",
	"traavoidtoll":    "Toll free",
	"traavoidcaronly": "Avoid car-only roads",
}

// PrintDriving prints one line per requested driving option.
func PrintDriving(s flatten.DrivingSummary) {
	fmt.Println(accentStyle.Render(fmt.Sprintf("\n--- 🚗 Driving Directions (%s) ---", s.Timestamp)))

	for _, o := range s.Options {
		name := optionNames[o.Option]
		if name == "" {
			name = o.Option
		}
		dur := time.Duration(o.Duration) * time.Millisecond

		fmt.Printf("\n%s\n", lineStyle.Render(name))
		fmt.Printf("  %s km in %s\n",
			timeStyle.Render(fmt.Sprintf("%.1f", float64(o.Distance)/1000)),
			timeStyle.Render(dur.Round(time.Minute).String()),
		)
		fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("Toll %s · Taxi %s · Fuel %s",
			fareStyle.Render(won(o.TollFare)),
			fareStyle.Render(won(o.TaxiFare)),
			fareStyle.Render(won(o.FuelPrice)),
		)))
	}
	fmt.Println()
}

// PrintTransit prints the fastest paths grouped by the lines they ride.
func PrintTransit(status, serviceDay string, paths []flatten.TransitPath) {
	if status != "" && status != flatten.StatusCity {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Transit status %s is not supported, no paths to show.", status)))
		return
	}
	if len(paths) == 0 {
		fmt.Println(errorStyle.Render("No transit paths could be found."))
		return
	}

	title := "\n--- 🚌 Public Transit ---"
	if serviceDay != "" {
		title = fmt.Sprintf("\n--- 🚌 Public Transit (%s) ---", serviceDay)
	}
	fmt.Println(accentStyle.Render(title))

	for _, route := range flatten.SummarizePaths(paths, 2) {
		lines := route.Lines
		if lines == "" {
			lines = "Walk🚶"
		}
		fmt.Printf("\n%s\n", lineStyle.Render(lines))

		for _, p := range route.Paths {
			label := ""
			if p.Label != "" {
				label = dimStyle.Render(" [" + p.Label + "]")
			}
			fmt.Printf("  • %s → %s  %.0f min, %s, %d transfers%s\n",
				timeStyle.Render(clock(p.DepartureTime)),
				timeStyle.Render(clock(p.ArrivalTime)),
				p.Duration,
				fareStyle.Render(won(int64(math.Round(p.Fare)))),
				p.TransferCount,
				label,
			)
			for _, l := range p.Legs {
				fmt.Printf("      %s\n", dimStyle.Render(legLine(l)))
			}
		}
	}
	fmt.Println()
}

func legLine(l flatten.TransitLeg) string {
	mode := modeCaser.String(strings.ToLower(l.Mode))
	if l.Line == nil || *l.Line == "" {
		return fmt.Sprintf("%s %.0f min", mode, l.Duration)
	}
	return fmt.Sprintf("%s %s, %.0f min, %d stops", mode, *l.Line, l.Duration, l.StationsCount)
}

// clock trims a "2006-01-02T15:04:05" timestamp down to "15:04".
func clock(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 && len(ts) >= i+6 {
		return ts[i+1 : i+6]
	}
	return ts
}

func won(v int64) string {
	s := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 && s[i-1] != '-' {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + "원"
}
