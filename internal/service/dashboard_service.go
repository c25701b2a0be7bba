package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jengzang/livestock-atlas-go/internal/cache"
	"github.com/jengzang/livestock-atlas-go/internal/dotdensity"
	"github.com/jengzang/livestock-atlas-go/internal/metrics"
	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/render"
	"github.com/jengzang/livestock-atlas-go/internal/source"
)

// Sentinel errors mapped to HTTP statuses by the handlers
var (
	ErrInvalidParam = errors.New("invalid parameter")
	ErrNotFound     = errors.New("not found")
	ErrLoad         = errors.New("dataset load failed")
)

// Center map layers
const (
	CenterLayerTotal     = "total"
	CenterLayerHeads     = "heads"
	CenterLayerFattening = "fattening"
)

// Sub-center map modes
const (
	SubcenterModeTotal = "total"
	SubcenterModeTypes = "types"
)

// Sub-center color scales
const (
	ScaleFixed    = "fixed"
	ScaleQuantile = "quantile"
)

// DashboardService loads datasets and renders dashboard payloads
type DashboardService struct {
	source  source.Source
	cache   cache.Cache
	builder *render.Builder
	trend   render.Trend
	logger  *zap.Logger
	group   singleflight.Group
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(src source.Source, c cache.Cache, builder *render.Builder, trend render.Trend, logger *zap.Logger) *DashboardService {
	if c == nil {
		c = cache.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		source:  src,
		cache:   c,
		builder: builder,
		trend:   trend,
		logger:  logger.Named("dashboard"),
	}
}

// Dataset returns the cached dataset or loads a fresh one. Concurrent
// misses share a single load that outlives any one caller; each caller
// stops waiting when its own context ends.
func (s *DashboardService) Dataset(ctx context.Context) (*models.Dataset, error) {
	ds, err := s.cache.Get(ctx)
	if err == nil {
		metrics.CacheHitsTotal.Inc()
		return ds, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache read failed", zap.Error(err))
	}
	metrics.CacheMissesTotal.Inc()

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan("dataset", func() (interface{}, error) {
		return s.load(shared)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Dataset), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refresh drops the cache and loads again
func (s *DashboardService) Refresh(ctx context.Context) (*models.Dataset, error) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidate failed", zap.Error(err))
	}
	return s.load(ctx)
}

func (s *DashboardService) load(ctx context.Context) (*models.Dataset, error) {
	start := time.Now()
	name := s.source.Name()

	ds, err := s.source.Load(ctx)
	metrics.SourceLoadDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceLoadsTotal.WithLabelValues(name, "error").Inc()
		s.logger.Error("dataset load failed", zap.String("source", name), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	metrics.SourceLoadsTotal.WithLabelValues(name, "ok").Inc()

	if err := s.cache.Set(ctx, ds); err != nil {
		s.logger.Warn("cache write failed", zap.Error(err))
	}
	return ds, nil
}

// CenterLayer renders one of the center-level maps
func (s *DashboardService) CenterLayer(ctx context.Context, filter models.CenterMapFilter) (models.LayerPayload, error) {
	layer := strings.TrimSpace(filter.Layer)
	if layer == "" {
		layer = CenterLayerTotal
	}
	switch layer {
	case CenterLayerTotal, CenterLayerHeads, CenterLayerFattening:
	default:
		return models.LayerPayload{}, fmt.Errorf("%w: layer %q", ErrInvalidParam, layer)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.LayerPayload{}, err
	}

	var payload models.LayerPayload
	switch layer {
	case CenterLayerTotal:
		payload = s.builder.Centers(ds.Summary)
	case CenterLayerHeads:
		payload = s.builder.HeadsPerBreeder(ds.Summary)
	case CenterLayerFattening:
		payload = s.builder.FatteningDairy(ds.FatteningDairy)
	}
	observe(payload)
	return payload, nil
}

// SubcenterLayer renders the sub-center choropleth, optionally for one center
func (s *DashboardService) SubcenterLayer(ctx context.Context, filter models.SubcenterMapFilter) (models.LayerPayload, error) {
	mode := strings.TrimSpace(filter.Mode)
	if mode == "" {
		mode = SubcenterModeTotal
	}
	if mode != SubcenterModeTotal && mode != SubcenterModeTypes {
		return models.LayerPayload{}, fmt.Errorf("%w: mode %q", ErrInvalidParam, mode)
	}
	scale := strings.ToLower(strings.TrimSpace(filter.Scale))
	if scale == "" {
		scale = ScaleFixed
	}
	if scale != ScaleFixed && scale != ScaleQuantile {
		return models.LayerPayload{}, fmt.Errorf("%w: scale %q", ErrInvalidParam, scale)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.LayerPayload{}, err
	}

	records := s.inCenter(ds.AllData, filter.Center)
	pies := mode == SubcenterModeTypes
	var payload models.LayerPayload
	if scale == ScaleQuantile {
		payload = s.builder.QuantileSubcenters(records, pies)
	} else {
		payload = s.builder.Subcenters(records, pies)
	}
	observe(payload)
	return payload, nil
}

// DensityLayer renders the dot-density map for one category
func (s *DashboardService) DensityLayer(ctx context.Context, filter models.DensityFilter) (models.LayerPayload, error) {
	category := strings.TrimSpace(filter.Category)
	if category == "" {
		category = dotdensity.All
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.LayerPayload{}, err
	}

	dots := dotdensity.FilterByRegion(ds.Dots, filter.Center, s.builder.Palette().Centers.Normalize)
	payload := s.builder.Density(s.inCenter(ds.AllData, filter.Center), dots, category)
	observe(payload)
	return payload, nil
}

// Summary renders the indicator cards
func (s *DashboardService) Summary(ctx context.Context) (render.Summary, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return render.Summary{}, err
	}
	return s.builder.Summary(ds), nil
}

// SpeciesChart renders the per-center stacked species bars
func (s *DashboardService) SpeciesChart(ctx context.Context, filter models.ChartFilter) (render.ChartConfig, error) {
	order := strings.ToLower(strings.TrimSpace(filter.Order))
	if order == "" {
		order = "asc"
	}
	if order != "asc" && order != "desc" {
		return render.ChartConfig{}, fmt.Errorf("%w: order %q", ErrInvalidParam, order)
	}
	if filter.Limit < 0 {
		return render.ChartConfig{}, fmt.Errorf("%w: limit %d", ErrInvalidParam, filter.Limit)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return render.ChartConfig{}, err
	}
	return s.builder.SpeciesChart(ds.AllData, order == "desc", filter.Limit), nil
}

// TypesChart renders the type-distribution pie
func (s *DashboardService) TypesChart(ctx context.Context) (render.ChartConfig, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return render.ChartConfig{}, err
	}
	return s.builder.TypesChart(ds.TypeDistribution), nil
}

// TrendChart renders the configured trend table
func (s *DashboardService) TrendChart() render.ChartConfig {
	return s.builder.TrendChart(s.trend)
}

// Centers lists the center names present in the data
func (s *DashboardService) Centers(ctx context.Context) ([]string, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return render.CenterNames(ds.AllData), nil
}

// Center renders the drill-down of one center
func (s *DashboardService) Center(ctx context.Context, name string) (render.CenterDetail, error) {
	if strings.TrimSpace(name) == "" {
		return render.CenterDetail{}, fmt.Errorf("%w: empty center name", ErrInvalidParam)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return render.CenterDetail{}, err
	}

	detail, ok := s.builder.Center(ds.AllData, name)
	if !ok {
		return render.CenterDetail{}, fmt.Errorf("%w: center %q", ErrNotFound, name)
	}
	return detail, nil
}

func (s *DashboardService) inCenter(records []models.RegionRecord, center string) []models.RegionRecord {
	if strings.TrimSpace(center) == "" {
		return records
	}
	names := s.builder.Palette().Centers
	want := names.Normalize(center)
	var out []models.RegionRecord
	for _, r := range records {
		if names.Normalize(r.Name) == want {
			out = append(out, r)
		}
	}
	return out
}

func observe(p models.LayerPayload) {
	if p.Polygons != nil {
		metrics.LayerFeatures.WithLabelValues(p.Layer, "polygons").Set(float64(len(p.Polygons.Features)))
	}
	metrics.LayerFeatures.WithLabelValues(p.Layer, "markers").Set(float64(len(p.Markers)))
	if p.Points != nil {
		metrics.LayerFeatures.WithLabelValues(p.Layer, "points").Set(float64(len(p.Points.Features)))
	}
}
