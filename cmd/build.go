package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/airsense-labs/sensorfeat/internal/export"
	"github.com/airsense-labs/sensorfeat/internal/geometry"
	"github.com/airsense-labs/sensorfeat/internal/pipeline"
	"github.com/airsense-labs/sensorfeat/internal/shape"
	"github.com/airsense-labs/sensorfeat/internal/store"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Load the three sources, run the pipeline, store and export features",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "build"))

		sensorsPath := flagOrConfig(cmd, "sensors", cfg.Sources.SensorsPath)
		landusePath := flagOrConfig(cmd, "landuse", cfg.Sources.LandUsePath)
		roadsPath := flagOrConfig(cmd, "roads", cfg.Sources.RoadsPath)
		if sensorsPath == "" || landusePath == "" || roadsPath == "" {
			return eris.New("build: sensors, landuse, and roads paths are required")
		}

		inputs, err := loadInputs(sensorsPath, landusePath, roadsPath)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.CreateRun(ctx)
		if err != nil {
			return err
		}
		log.Info("build: run created", zap.String("run_id", run.ID))

		p := pipeline.New(geometry.NewCaliforniaAlbers(), pipeline.Config{
			RadiusMeters:   cfg.Features.RadiusMeters,
			BufferSegments: cfg.Features.BufferSegments,
			Workers:        cfg.Features.Workers,
		})
		table, err := p.Run(ctx, inputs)
		if err != nil {
			return failRun(ctx, st, run.ID, err)
		}

		if err := persistRun(ctx, st, run.ID, table); err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out != "" {
			variant, err := parseVariant(cmd)
			if err != nil {
				return err
			}
			if err := export.WriteXLSX(out, "features", table.Rows(variant)); err != nil {
				return err
			}
			log.Info("build: exported", zap.String("path", out), zap.String("variant", string(variant)))
		}

		log.Info("build: complete", zap.String("run_id", run.ID), zap.Int("rows", table.Len()))
		return nil
	},
}

func init() {
	buildCmd.Flags().String("sensors", "", "sensor shapefile path (overrides config)")
	buildCmd.Flags().String("landuse", "", "land-use shapefile path (overrides config)")
	buildCmd.Flags().String("roads", "", "road shapefile path (overrides config)")
	buildCmd.Flags().String("out", "", "write the feature table to this XLSX path")
	buildCmd.Flags().String("variant", string(pipeline.VariantZeroFilled), "output variant: raw or zero_filled")
	rootCmd.AddCommand(buildCmd)
}

func loadInputs(sensorsPath, landusePath, roadsPath string) (pipeline.Inputs, error) {
	sensors, err := shape.LoadSensors(sensorsPath, cfg.Sources.SensorIDField)
	if err != nil {
		return pipeline.Inputs{}, err
	}
	parcels, err := shape.LoadLandUse(landusePath, "", cfg.Sources.LandUseField)
	if err != nil {
		return pipeline.Inputs{}, err
	}
	roads, err := shape.LoadRoads(roadsPath, "", cfg.Sources.HighwayField)
	if err != nil {
		return pipeline.Inputs{}, err
	}
	return pipeline.Inputs{Sensors: sensors, Parcels: parcels, Roads: roads}, nil
}

// persistRun saves the feature table and completes the run. Either step
// failing marks the run failed, so no run row is left running forever.
func persistRun(ctx context.Context, st store.Store, runID string, table *pipeline.FeatureTable) error {
	if err := st.SaveFeatures(ctx, runID, table.Rows(pipeline.VariantRaw)); err != nil {
		return failRun(ctx, st, runID, err)
	}
	if err := st.CompleteRun(ctx, runID, table.Len()); err != nil {
		return failRun(ctx, st, runID, err)
	}
	return nil
}

// failRun marks the run failed and returns the original error.
func failRun(ctx context.Context, st store.Store, runID string, err error) error {
	if failErr := st.FailRun(ctx, runID); failErr != nil {
		zap.L().Warn("build: mark run failed", zap.Error(failErr))
	}
	return err
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}

func flagOrConfig(cmd *cobra.Command, name, fallback string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return fallback
}

func parseVariant(cmd *cobra.Command) (pipeline.Variant, error) {
	raw, _ := cmd.Flags().GetString("variant")
	switch pipeline.Variant(raw) {
	case pipeline.VariantRaw:
		return pipeline.VariantRaw, nil
	case pipeline.VariantZeroFilled:
		return pipeline.VariantZeroFilled, nil
	default:
		return "", eris.Errorf("unknown variant %q", raw)
	}
}
