package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/YONSEI-TPLAB/map-api/pkg/config"
	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
)

// tripForm asks for an origin and a destination as "lat,long".
func tripForm(start, goal *string, extra ...huh.Field) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Start (lat,long)").
			Placeholder("37.5665,126.9780").
			Value(start).
			Validate(validatePoint),
		huh.NewInput().
			Title("Goal (lat,long)").
			Placeholder("37.4979,127.0276").
			Value(goal).
			Validate(validatePoint),
	}
	fields = append(fields, extra...)
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(GetTheme())
}

func validatePoint(s string) error {
	_, err := params.ParsePoint(s)
	return err
}

// RunTransitTUI looks up public transit paths for a single trip
func RunTransitTUI(client *naver.Client) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var from, to string
	mode := cfg.Mode()
	at := time.Now().Format(params.ISO8601)

	form := tripForm(&from, &to,
		huh.NewSelect[string]().
			Title("Timetable").
			Options(
				huh.NewOption("Realtime", params.ModeRealtime),
				huh.NewOption("Static", params.ModeStatic),
			).
			Value(&mode),
		huh.NewInput().
			Title("Departure time").
			Value(&at).
			Validate(func(s string) error {
				_, err := time.Parse(params.ISO8601, s)
				return err
			}),
	)

	if err := form.Run(); err != nil {
		return err
	}

	start, _ := params.ParsePoint(from)
	goal, _ := params.ParsePoint(to)
	query := params.TransitQuery(params.CoordinateRequest{Start: start, Goal: goal, DepartureTime: at, Mode: mode})

	var resp *naver.TransitResponse
	var fetchErr error

	_ = spinner.New().
		Title("Routing by public transit...").
		Action(func() {
			resp, fetchErr = client.FetchTransit(context.Background(), query)
		}).
		Run()

	if fetchErr != nil {
		return fmt.Errorf("could not route trip: %w", fetchErr)
	}

	res := flatten.Transit(resp, query)
	if res.Outcome == flatten.Empty {
		fmt.Println(errorStyle.Render("No transit result was returned for this trip."))
		return nil
	}

	PrintTransit(resp.Status, resp.Context.ServiceDay.Name, flatten.TransitPaths(resp))
	return nil
}
