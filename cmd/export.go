package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/airsense-labs/sensorfeat/internal/export"
	"github.com/airsense-labs/sensorfeat/internal/pipeline"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run's feature table to XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runID, _ := cmd.Flags().GetString("run")
		out, _ := cmd.Flags().GetString("out")
		if runID == "" || out == "" {
			return eris.New("export: --run and --out are required")
		}
		variant, err := parseVariant(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rows, err := st.GetFeatures(ctx, runID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return eris.Errorf("export: run %s has no feature rows", runID)
		}

		table := pipeline.TableFromRows(rows)
		if err := export.WriteXLSX(out, "features", table.Rows(variant)); err != nil {
			return err
		}

		zap.L().Info("export: written",
			zap.String("run_id", runID),
			zap.String("path", out),
			zap.String("variant", string(variant)),
			zap.Int("rows", table.Len()),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("run", "", "run identifier to export")
	exportCmd.Flags().String("out", "", "output XLSX path")
	exportCmd.Flags().String("variant", string(pipeline.VariantZeroFilled), "output variant: raw or zero_filled")
	rootCmd.AddCommand(exportCmd)
}
