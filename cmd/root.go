package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/airsense-labs/sensorfeat/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sensorfeat",
	Short: "Buffer land-use and road-proximity features for point sensors",
	Long:  "Builds one feature row per sensor: land-use class shares inside a one-mile buffer plus nearest distance to each of four road classes, from sensor, land-use, and road shapefiles.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
