package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/dotdensity"
	"github.com/jengzang/livestock-atlas-go/internal/models"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap", "dataset.json")
	ds := &models.Dataset{
		AllData: []models.RegionRecord{{
			ID:       "1",
			Name:     "دمياط",
			Geometry: geojson.NewPointGeometry([]float64{31.8, 31.4}),
			Centroid: &models.LatLng{Lat: 31.4, Lng: 31.8},
			Measures: map[string]float64{"sheep": 12},
		}},
		Dots: dotdensity.FromPoints([]models.DotPoint{{Category: "sheep", Lat: 31.4, Lng: 31.8}}),
	}
	require.NoError(t, WriteSnapshot(path, ds))

	got, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.AllData, 1)
	assert.Equal(t, 12.0, got.AllData[0].Measures["sheep"])
	assert.NotNil(t, got.AllData[0].Geometry)
	require.NotNil(t, got.AllData[0].Centroid)
	assert.Equal(t, 31.4, got.AllData[0].Centroid.Lat)
	assert.Len(t, got.Dots.Features, 1)
	assert.False(t, got.LoadedAt.IsZero())
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFile(filepath.Join(dir, "missing.json")).Load(context.Background())
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = NewFile(bad).Load(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFile(bad).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	s, err := New(config.SourceConfig{Kind: config.SourceFile, SnapshotPath: "x.json"}, nil)
	require.NoError(t, err)
	assert.Equal(t, config.SourceFile, s.Name())

	s, err = New(config.SourceConfig{Kind: config.SourceUpstream, BaseURL: "http://localhost"}, nil)
	require.NoError(t, err)
	assert.Equal(t, config.SourceUpstream, s.Name())

	_, err = New(config.SourceConfig{Kind: "ftp"}, nil)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}
