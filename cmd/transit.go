package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/YONSEI-TPLAB/map-api/pkg/batch"
	"github.com/YONSEI-TPLAB/map-api/pkg/exporter"
	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
	"github.com/YONSEI-TPLAB/map-api/pkg/tui"
)

var transitCmd = &cobra.Command{
	Use:   "transit",
	Short: "Public transit itineraries for origin/destination pairs",
	Long: `Leverages the public Naver Maps web transit endpoint to fetch bus and subway
itineraries. Each CSV row expands into one output row per leg of every
path found. Use --from/--to for a single lookup instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		mode := cfg.Mode()
		if cmd.Flags().Changed("mode") {
			mode, _ = cmd.Flags().GetString("mode")
		}
		if mode, err = params.ParseMode(mode); err != nil {
			return fmt.Errorf("invalid --mode: %w", err)
		}

		cols := columnsFromFlags(cmd)
		cols.DepartureTime, _ = cmd.Flags().GetString("departure-time-column")
		job := batch.NewTransitJob(client, params.NewBuilder(cols), mode)

		start, goal, single, err := singleLookup(cmd)
		if err != nil {
			return err
		}
		if single {
			at, _ := cmd.Flags().GetString("at")
			icsPath, _ := cmd.Flags().GetString("ics")
			return printTransitLookup(client, mode, start, goal, at, icsPath)
		}

		return runBatch(cmd, job, "Requesting transit directions")
	},
}

func printTransitLookup(client *naver.Client, mode string, start, goal params.Point, at, icsPath string) error {
	if at == "" {
		at = time.Now().Format(params.ISO8601)
	}
	query := params.TransitQuery(params.CoordinateRequest{Start: start, Goal: goal, DepartureTime: at, Mode: mode})

	var resp *naver.TransitResponse
	var err error

	_ = spinner.New().
		Title("Routing by public transit...").
		Action(func() {
			resp, err = client.FetchTransit(context.Background(), query)
		}).
		Run()

	if err != nil {
		return err
	}

	res := flatten.Transit(resp, query)
	switch res.Outcome {
	case flatten.Empty:
		fmt.Println("No transit result was returned for this trip.")
		return nil
	case flatten.Unsupported:
		tui.PrintTransit(res.Status, "", nil)
		return nil
	}

	paths := flatten.TransitPaths(resp)
	tui.PrintTransit(resp.Status, resp.Context.ServiceDay.Name, paths)

	if icsPath == "" {
		return nil
	}

	file, err := os.Create(icsPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := exporter.GenerateICS(paths, file); err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}

	fmt.Printf("✨ Successfully exported %d itineraries to: %s\n", len(paths), icsPath)
	return nil
}

func init() {
	rootCmd.AddCommand(transitCmd)
	addBatchFlags(transitCmd)
	transitCmd.Flags().StringP("mode", "m", params.ModeRealtime, "Routing mode: TIME (realtime) or STATIC (timetable)")
	transitCmd.Flags().String("departure-time-column", params.DefaultColumns().DepartureTime, "Column holding the ISO 8601 departure time; empty cells use the current time")
	transitCmd.Flags().String("at", "", "Single lookup: departure time (2006-01-02T15:04:05), defaults to now")
	transitCmd.Flags().String("ics", "", "Single lookup: export the itineraries to this .ics file")
}
