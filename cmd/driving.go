package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/YONSEI-TPLAB/map-api/pkg/batch"
	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
	"github.com/YONSEI-TPLAB/map-api/pkg/tui"
)

var drivingCmd = &cobra.Command{
	Use:   "driving",
	Short: "Driving distance, duration and fares for origin/destination pairs",
	Long: `Calls the Naver Maps driving directions API once per CSV row and appends
distance (m), duration (ms), toll fare, taxi fare and fuel price for every
requested route option. Use --from/--to for a single lookup instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		waypoints := cfg.Waypoints()
		if cmd.Flags().Changed("waypoints") {
			waypoints, _ = cmd.Flags().GetInt("waypoints")
		}
		options := cfg.DrivingOptions
		if cmd.Flags().Changed("options") || len(options) == 0 {
			options, _ = cmd.Flags().GetStringSlice("options")
		}

		cols := columnsFromFlags(cmd)
		cols.DepartureTime = ""
		job, err := batch.NewDrivingJob(client, params.NewBuilder(cols), waypoints, options)
		if err != nil {
			// Invalid waypoint counts are reported and the run skipped
			fmt.Printf("❌ %v\n", err)
			return nil
		}

		start, goal, single, err := singleLookup(cmd)
		if err != nil {
			return err
		}
		if single {
			return printDrivingLookup(client, job, start, goal)
		}

		return runBatch(cmd, job, "Requesting driving directions")
	},
}

func printDrivingLookup(client *naver.Client, job *batch.DrivingJob, start, goal params.Point) error {
	query := params.DrivingQuery(params.CoordinateRequest{Start: start, Goal: goal, Options: job.Options})

	var resp *naver.DrivingResponse
	var err error

	_ = spinner.New().
		Title("Routing by car...").
		Action(func() {
			resp, err = client.FetchDriving(context.Background(), job.NumWaypoints, query)
		}).
		Run()

	if err != nil {
		return err
	}

	summary, ok, err := flatten.SummarizeDriving(resp, query, job.Options)
	if err != nil {
		return err
	}
	if !ok {
		msg := "no route returned"
		if resp.Message != "" {
			msg = resp.Message
		}
		fmt.Printf("No driving route could be found: %s\n", msg)
		return nil
	}

	tui.PrintDriving(summary)
	return nil
}

func init() {
	rootCmd.AddCommand(drivingCmd)
	addBatchFlags(drivingCmd)
	drivingCmd.Flags().IntP("waypoints", "w", 5, "Waypoint capacity of the endpoint (5 or 15)")
	drivingCmd.Flags().StringSlice("options", params.DefaultOptions, "Route options (traoptimal, trafast, tracomfort, traavoidtoll, traavoidcaronly)")
}
