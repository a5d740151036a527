package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YONSEI-TPLAB/map-api/pkg/config"
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
	"github.com/YONSEI-TPLAB/map-api/pkg/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mapapi configuration",
	Long:  "View or edit your local configuration settings (API keys, waypoint capacity, route options, transit mode).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if show, _ := cmd.Flags().GetBool("show"); show {
			tui.PrintConfig(cfg)
			return nil
		}

		changed := false
		if cmd.Flags().Changed("set-key-id") {
			cfg.APIKeyID, _ = cmd.Flags().GetString("set-key-id")
			changed = true
		}
		if cmd.Flags().Changed("set-key") {
			cfg.APIKey, _ = cmd.Flags().GetString("set-key")
			changed = true
		}
		if cmd.Flags().Changed("waypoints") {
			n, _ := cmd.Flags().GetInt("waypoints")
			if n != 5 && n != 15 {
				return naver.ErrInvalidWaypoints
			}
			cfg.NumWaypoints = n
			changed = true
		}
		if cmd.Flags().Changed("options") {
			cfg.DrivingOptions, _ = cmd.Flags().GetStringSlice("options")
			changed = true
		}
		if cmd.Flags().Changed("mode") {
			mode, _ := cmd.Flags().GetString("mode")
			if cfg.TransitMode, err = params.ParseMode(mode); err != nil {
				return fmt.Errorf("invalid --mode: %w", err)
			}
			changed = true
		}

		if changed {
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Println("✅ Configuration saved.")
			return nil
		}

		// If no flags are given, launch the interactive TUI flow
		return tui.RunConfigTUI()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().String("set-key-id", "", "Save the API gateway key ID")
	configCmd.Flags().String("set-key", "", "Save the API gateway key")
	configCmd.Flags().Int("waypoints", config.DefaultNumWaypoints, "Save the default waypoint capacity (5 or 15)")
	configCmd.Flags().StringSlice("options", nil, "Save the default driving route options")
	configCmd.Flags().String("mode", config.DefaultTransitMode, "Save the default transit mode (TIME or STATIC)")
	configCmd.Flags().Bool("show", false, "Print the current configuration")
}
