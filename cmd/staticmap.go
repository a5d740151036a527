package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/YONSEI-TPLAB/map-api/pkg/params"
	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Download a static map with one marker per CSV row",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")

		if input == "" {
			return fmt.Errorf("must specify an input CSV using --input")
		}

		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		width, height := cfg.MapSize()
		if cmd.Flags().Changed("width") {
			width, _ = cmd.Flags().GetInt("width")
		}
		if cmd.Flags().Changed("height") {
			height, _ = cmd.Flags().GetInt("height")
		}

		cols := params.MarkerColumns{}
		cols.Lat, _ = cmd.Flags().GetString("lat-column")
		cols.Long, _ = cmd.Flags().GetString("long-column")
		cols.Label, _ = cmd.Flags().GetString("label-column")

		in, err := table.ReadCSVFile(input)
		if err != nil {
			return err
		}

		query, err := params.StaticMap(in, width, height, cols)
		if err != nil {
			return err
		}

		var img []byte
		var contentType string
		_ = spinner.New().
			Title(fmt.Sprintf("Rendering %dx%d map with %d markers...", width, height, in.Len())).
			Action(func() {
				img, contentType, err = client.FetchStaticMap(context.Background(), query)
			}).
			Run()

		if err != nil {
			return err
		}

		if err := os.WriteFile(output, img, 0644); err != nil {
			return fmt.Errorf("failed to write map image: %w", err)
		}

		fmt.Printf("🗺️  Saved map (%s, %d bytes) to %s\n", contentType, len(img), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
	def := params.DefaultMarkerColumns()
	mapCmd.Flags().StringP("input", "i", "", "CSV file with one marker per row")
	mapCmd.Flags().StringP("output", "o", "map.png", "Image file to write")
	mapCmd.Flags().String("lat-column", def.Lat, "Column holding the marker latitude")
	mapCmd.Flags().String("long-column", def.Long, "Column holding the marker longitude")
	mapCmd.Flags().String("label-column", "", "Optional column used as the marker label")
	mapCmd.Flags().Int("width", 500, "Image width in pixels")
	mapCmd.Flags().Int("height", 500, "Image height in pixels")
}
