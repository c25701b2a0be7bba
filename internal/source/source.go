// Package source selects where the dashboard dataset is loaded from
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/database"
	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/repository"
	"github.com/jengzang/livestock-atlas-go/internal/upstream"
)

// ErrUnknownKind is returned for an unsupported source kind
var ErrUnknownKind = errors.New("unknown source kind")

// Source loads one complete dataset
type Source interface {
	Name() string
	Load(ctx context.Context) (*models.Dataset, error)
}

// New builds the configured source. The sqlite kind initializes the shared database.
func New(cfg config.SourceConfig, logger *zap.Logger) (Source, error) {
	switch cfg.Kind {
	case config.SourceUpstream:
		return upstream.NewClient(cfg, logger), nil
	case config.SourceSQLite:
		if err := database.Init(database.Config{Path: cfg.DBPath}, logger); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewRegionRepository(database.GetDB()), nil
	case config.SourceFile:
		return NewFile(cfg.SnapshotPath), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
}

// File reads a JSON dataset snapshot from disk
type File struct {
	path string
}

// NewFile creates a snapshot file source
func NewFile(path string) *File {
	return &File{path: path}
}

// Name identifies the source in logs and metrics
func (f *File) Name() string {
	return config.SourceFile
}

// Load reads and decodes the snapshot
func (f *File) Load(ctx context.Context) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", f.path, err)
	}
	ds := &models.Dataset{}
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", f.path, err)
	}
	if ds.LoadedAt.IsZero() {
		if info, err := os.Stat(f.path); err == nil {
			ds.LoadedAt = info.ModTime()
		}
	}
	return ds, nil
}

// WriteSnapshot stores ds as an indented JSON snapshot
func WriteSnapshot(path string, ds *models.Dataset) error {
	if ds.LoadedAt.IsZero() {
		ds.LoadedAt = time.Now()
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}
