package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/YONSEI-TPLAB/map-api/pkg/batch"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// addBatchFlags registers the flags shared by the driving and transit commands.
func addBatchFlags(cmd *cobra.Command) {
	def := params.DefaultColumns()
	cmd.Flags().StringP("input", "i", "", "CSV file with one origin/destination pair per row")
	cmd.Flags().StringP("output", "o", "-", "Output CSV file (- for stdout)")
	cmd.Flags().String("start-lat-column", def.StartLat, "Column holding the start latitude")
	cmd.Flags().String("start-long-column", def.StartLong, "Column holding the start longitude")
	cmd.Flags().String("goal-lat-column", def.GoalLat, "Column holding the goal latitude")
	cmd.Flags().String("goal-long-column", def.GoalLong, "Column holding the goal longitude")
	cmd.Flags().Bool("continue-on-error", false, "Leave failed rows empty instead of aborting the batch")
	cmd.Flags().String("from", "", "Single lookup: start as \"lat,long\"")
	cmd.Flags().String("to", "", "Single lookup: goal as \"lat,long\"")
}

func columnsFromFlags(cmd *cobra.Command) params.Columns {
	cols := params.Columns{}
	cols.StartLat, _ = cmd.Flags().GetString("start-lat-column")
	cols.StartLong, _ = cmd.Flags().GetString("start-long-column")
	cols.GoalLat, _ = cmd.Flags().GetString("goal-lat-column")
	cols.GoalLong, _ = cmd.Flags().GetString("goal-long-column")
	return cols
}

// singleLookup returns the --from/--to points, or ok=false when neither is set.
func singleLookup(cmd *cobra.Command) (start, goal params.Point, ok bool, err error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" && to == "" {
		return start, goal, false, nil
	}
	if from == "" || to == "" {
		return start, goal, false, fmt.Errorf("--from and --to must be given together")
	}
	if start, err = params.ParsePoint(from); err != nil {
		return start, goal, false, fmt.Errorf("invalid --from: %w", err)
	}
	if goal, err = params.ParsePoint(to); err != nil {
		return start, goal, false, fmt.Errorf("invalid --to: %w", err)
	}
	return start, goal, true, nil
}

// runBatch reads the input CSV, runs job over it and writes the merged table.
func runBatch(cmd *cobra.Command, job batch.Job, title string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	isolate, _ := cmd.Flags().GetBool("continue-on-error")

	if input == "" {
		return fmt.Errorf("must specify an input CSV using --input, or a single lookup using --from and --to")
	}

	in, err := table.ReadCSVFile(input)
	if err != nil {
		return err
	}

	policy := batch.Strict
	if isolate {
		policy = batch.Isolate
	}
	runner := batch.NewRunner(batch.WithLogger(logger), batch.WithPolicy(policy))

	var out *table.Table
	var stats batch.Stats
	run := func() {
		out, stats, err = runner.Run(context.Background(), job, in)
	}

	// The spinner would interleave with CSV written to stdout
	if output == "-" {
		run()
	} else {
		_ = spinner.New().
			Title(fmt.Sprintf("%s for %d rows...", title, in.Len())).
			Action(run).
			Run()
	}

	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if err := table.WriteCSVFile(out, output); err != nil {
		return err
	}

	if output != "-" {
		fmt.Printf("✅ Wrote %d rows to %s (%d ok, %d empty, %d unsupported, %d failed)\n",
			out.Len(), output, stats.Success, stats.Empty, stats.Unsupported, stats.Failed)
	}
	return nil
}
