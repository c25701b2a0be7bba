package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/database"
	"github.com/jengzang/livestock-atlas-go/internal/repository"
	"github.com/jengzang/livestock-atlas-go/internal/source"
	"github.com/jengzang/livestock-atlas-go/internal/upstream"
)

// NewSeedCmd copies a dataset into the SQLite store
func NewSeedCmd() *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a snapshot or the upstream API into SQLite",
		Long:  "Without --snapshot the upstream API configured under source is read.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp(cmd)
			if err != nil {
				return err
			}
			cfg, logger := app.Config, app.Logger

			var from source.Source = upstream.NewClient(cfg.Source, logger)
			if snapshot != "" {
				from = source.NewFile(snapshot)
			}

			ds, err := from.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load dataset from %s: %w", from.Name(), err)
			}

			if err := database.Init(database.Config{Path: cfg.Source.DBPath}, logger); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			if err := repository.NewRegionRepository(database.GetDB()).SaveDataset(cmd.Context(), ds); err != nil {
				return err
			}
			logger.Info("dataset seeded",
				zap.String("from", from.Name()),
				zap.String("db", cfg.Source.DBPath),
				zap.Int("subcenters", len(ds.AllData)),
				zap.Int("centers", len(ds.Summary)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "JSON snapshot to seed from")
	return cmd
}

// NewExportCmd writes the configured source to a JSON snapshot
func NewExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configured source to a JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp(cmd)
			if err != nil {
				return err
			}
			cfg := app.Config
			if out == "" {
				out = cfg.Source.SnapshotPath
			}
			if cfg.Source.Kind == config.SourceFile && out == cfg.Source.SnapshotPath {
				return fmt.Errorf("refusing to export the file source onto itself: %s", out)
			}

			from, err := source.New(cfg.Source, app.Logger)
			if err != nil {
				return err
			}
			defer database.Close()

			ds, err := from.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load dataset from %s: %w", from.Name(), err)
			}
			if err := source.WriteSnapshot(out, ds); err != nil {
				return err
			}
			app.Logger.Info("snapshot written", zap.String("path", out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "snapshot path (default: source.snapshot_path)")
	return cmd
}
