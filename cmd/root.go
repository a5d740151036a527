package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/YONSEI-TPLAB/map-api/pkg/config"
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
)

var (
	verbose bool
	envFile string
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mapapi",
	Short: "A CLI for the Naver Maps directions and static map APIs",
	Long: `mapapi calls the Naver Maps driving directions, static map and public
transit endpoints for a CSV of coordinates and writes the results back as
flat tables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(envFile); err != nil {
			return err
		}

		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction(zap.IncreaseLevel(zap.WarnLevel))
		}
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newClient builds an API client from the saved config and environment.
func newClient() (*naver.Client, *config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return naver.NewClient(cfg.Credentials(), naver.WithLogger(logger)), cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every request and row outcome")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load credentials from this .env file if it exists")
}
