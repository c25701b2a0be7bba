// Package cli wires the atlas commands
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/livestock-atlas-go/internal/cache"
	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/logging"
	"github.com/jengzang/livestock-atlas-go/internal/render"
	"github.com/jengzang/livestock-atlas-go/internal/service"
	"github.com/jengzang/livestock-atlas-go/internal/source"
	"github.com/jengzang/livestock-atlas-go/internal/symbology"
)

// Version is injected at build time
var Version = "dev"

type contextKey struct{}

// App carries the loaded configuration and logger through the command tree
type App struct {
	Config *config.Config
	Logger *zap.Logger
}

// RootOptions holds global flags
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the atlas root command with every subcommand attached
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "atlas",
		Short:   "Livestock atlas dashboard backend",
		Long:    "atlas loads livestock census data and serves thematic map layers,\nindicator cards and charts for the dashboard.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: defaults and ATLAS_* variables)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "override log.level")

	cmd.AddCommand(
		NewServeCmd(),
		NewRenderCmd(),
		NewSeedCmd(),
		NewExportCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, contextKey{}, &App{Config: cfg, Logger: logger}))
	return nil
}

// GetApp extracts the App stored by the root command
func GetApp(cmd *cobra.Command) (*App, error) {
	if ctx := cmd.Context(); ctx != nil {
		if app, ok := ctx.Value(contextKey{}).(*App); ok {
			return app, nil
		}
	}
	return nil, fmt.Errorf("command %q ran without initialization", cmd.Name())
}

// NewService builds the dashboard service from configuration
func NewService(cfg *config.Config, logger *zap.Logger) (*service.DashboardService, error) {
	src, err := source.New(cfg.Source, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	builder := render.NewBuilder(symbology.DefaultPalette(), render.Options{
		Locale:    cfg.Render.Locale,
		PieRadius: cfg.Render.PieRadius,
	})
	return service.NewDashboardService(src, c, builder, cfg.Render.Trend, logger), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
