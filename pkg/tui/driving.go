package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/YONSEI-TPLAB/map-api/pkg/config"
	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
)

var drivingOptions = []huh.Option[string]{
	huh.NewOption("Optimal", params.OptionOptimal),
	huh.NewOption("Fastest", params.OptionFast),
	huh.NewOption("Comfort", params.OptionComfort),
	huh.NewOption("Toll free", params.OptionAvoidToll),
	huh.NewOption("Avoid car-only roads", params.OptionAvoidCarOnly),
}

// RunDrivingTUI looks up driving directions for a single trip
func RunDrivingTUI(client *naver.Client) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var from, to string
	options := cfg.DrivingOptions
	if len(options) == 0 {
		options = append([]string(nil), params.DefaultOptions...)
	}

	form := tripForm(&from, &to,
		huh.NewMultiSelect[string]().
			Title("Route options").
			Options(selected(drivingOptions, options)...).
			Value(&options).
			Validate(func(s []string) error {
				if len(s) == 0 {
					return errors.New("pick at least one option")
				}
				return nil
			}),
	)

	if err := form.Run(); err != nil {
		return err
	}

	start, _ := params.ParsePoint(from)
	goal, _ := params.ParsePoint(to)
	query := params.DrivingQuery(params.CoordinateRequest{Start: start, Goal: goal, Options: options})

	var resp *naver.DrivingResponse
	var fetchErr error

	_ = spinner.New().
		Title("Routing by car...").
		Action(func() {
			resp, fetchErr = client.FetchDriving(context.Background(), cfg.Waypoints(), query)
		}).
		Run()

	if fetchErr != nil {
		if errors.Is(fetchErr, naver.ErrInvalidWaypoints) {
			fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %v. Fix it under Settings.", fetchErr)))
			return nil
		}
		return fmt.Errorf("could not route trip: %w", fetchErr)
	}

	summary, ok, err := flatten.SummarizeDriving(resp, query, options)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println(errorStyle.Render(fmt.Sprintf("No driving route could be found (%s).", resp.Message)))
		return nil
	}

	PrintDriving(summary)
	return nil
}

// selected marks the options whose value is in values.
func selected(opts []huh.Option[string], values []string) []huh.Option[string] {
	on := make(map[string]bool, len(values))
	for _, v := range values {
		on[v] = true
	}
	out := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		out[i] = o.Selected(on[o.Value])
	}
	return out
}
