package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/livestock-atlas-go/internal/cache"
	"github.com/jengzang/livestock-atlas-go/internal/measure"
	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/render"
	"github.com/jengzang/livestock-atlas-go/internal/symbology"
)

type fakeSource struct {
	ds      *models.Dataset
	err     error
	loads   atomic.Int32
	delay   time.Duration
	release chan struct{} // when set, Load blocks until closed or ctx ends
	started chan struct{}
	once    sync.Once
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(ctx context.Context) (*models.Dataset, error) {
	f.loads.Add(1)
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.ds, f.err
}

func square(lng, lat float64) *geojson.Geometry {
	return geojson.NewPolygonGeometry([][][]float64{{
		{lng, lat}, {lng + 0.1, lat}, {lng + 0.1, lat + 0.1}, {lng, lat + 0.1}, {lng, lat},
	}})
}

func record(id, center, sub string, measures map[string]float64) models.RegionRecord {
	return models.RegionRecord{
		ID:       id,
		Name:     center,
		SubName:  sub,
		Geometry: square(31.8, 31.4),
		Centroid: &models.LatLng{Lat: 31.45, Lng: 31.85},
		Measures: measures,
	}
}

func dot(category, region string) *geojson.Feature {
	f := geojson.NewPointFeature([]float64{31.8, 31.4})
	f.SetProperty("category", category)
	f.SetProperty("sec_name", region)
	return f
}

func testDataset() *models.Dataset {
	dots := geojson.NewFeatureCollection()
	dots.AddFeature(dot("cows", "دمياط"))
	dots.AddFeature(dot("sheep", "فارسكور"))

	return &models.Dataset{
		AllData: []models.RegionRecord{
			record("10", "دمياط", "شياخة أولى", map[string]float64{measure.LocalCowFemales: 100, measure.Breeders: 20}),
			record("11", "مركز دمياط", "شياخة ثانية", map[string]float64{measure.Sheep: 40, measure.Breeders: 10}),
			record("12", "فارسكور", "شياخة ثالثة", map[string]float64{measure.PackAnimals: 5}),
		},
		Summary: []models.RegionRecord{
			record("1", "دمياط", "", map[string]float64{"total": 140, "breeders": 30}),
			record("2", "فارسكور", "", map[string]float64{"total": 5, "breeders": 1}),
		},
		TypeDistribution: []models.RegionRecord{
			record("1", "دمياط", "", map[string]float64{measure.Sheep: 40}),
		},
		FatteningDairy: []models.RegionRecord{
			record("1", "دمياط", "", map[string]float64{"fattening": 10, "dairy": 30}),
		},
		Dots:     dots,
		LoadedAt: time.Now(),
	}
}

func newTestService(src *fakeSource, c cache.Cache) *DashboardService {
	builder := render.NewBuilder(symbology.DefaultPalette(), render.Options{Locale: "en"})
	return NewDashboardService(src, c, builder, render.DefaultTrend(), nil)
}

func TestDatasetUsesCache(t *testing.T) {
	src := &fakeSource{ds: testDataset()}
	svc := newTestService(src, cache.NewMemory(time.Minute))

	for i := 0; i < 3; i++ {
		_, err := svc.Dataset(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.loads.Load())
}

func TestDatasetSharesConcurrentLoads(t *testing.T) {
	src := &fakeSource{ds: testDataset(), delay: 50 * time.Millisecond}
	svc := newTestService(src, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Dataset(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.loads.Load())
}

func TestDatasetSharedLoadSurvivesCallerCancel(t *testing.T) {
	src := &fakeSource{
		ds:      testDataset(),
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	svc := newTestService(src, cache.NewMemory(time.Minute))

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Dataset(firstCtx)
		firstErr <- err
	}()
	<-src.started

	type result struct {
		ds  *models.Dataset
		err error
	}
	second := make(chan result, 1)
	go func() {
		ds, err := svc.Dataset(context.Background())
		second <- result{ds, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(src.release)
	res := <-second
	require.NoError(t, res.err)
	assert.NotNil(t, res.ds)
	assert.Equal(t, int32(1), src.loads.Load())
}

func TestDatasetWrapsLoadError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	svc := newTestService(src, nil)

	_, err := svc.Dataset(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "boom")
}

func TestRefreshReloads(t *testing.T) {
	src := &fakeSource{ds: testDataset()}
	svc := newTestService(src, cache.NewMemory(time.Minute))

	_, err := svc.Dataset(context.Background())
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.loads.Load())
}

func TestCenterLayer(t *testing.T) {
	svc := newTestService(&fakeSource{ds: testDataset()}, nil)
	ctx := context.Background()

	total, err := svc.CenterLayer(ctx, models.CenterMapFilter{})
	require.NoError(t, err)
	assert.Equal(t, render.LayerCenters, total.Layer)
	assert.Len(t, total.Polygons.Features, 2)

	heads, err := svc.CenterLayer(ctx, models.CenterMapFilter{Layer: "heads"})
	require.NoError(t, err)
	assert.Equal(t, render.LayerHeadsPerBreeder, heads.Layer)

	fat, err := svc.CenterLayer(ctx, models.CenterMapFilter{Layer: "fattening"})
	require.NoError(t, err)
	assert.Equal(t, render.LayerFatteningDairy, fat.Layer)

	_, err = svc.CenterLayer(ctx, models.CenterMapFilter{Layer: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestSubcenterLayerFiltersCenter(t *testing.T) {
	svc := newTestService(&fakeSource{ds: testDataset()}, nil)
	ctx := context.Background()

	all, err := svc.SubcenterLayer(ctx, models.SubcenterMapFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Polygons.Features, 3)

	one, err := svc.SubcenterLayer(ctx, models.SubcenterMapFilter{Mode: "types", Center: "دمياط"})
	require.NoError(t, err)
	assert.Equal(t, render.LayerSubcenterTypes, one.Layer)
	assert.Len(t, one.Polygons.Features, 2)

	_, err = svc.SubcenterLayer(ctx, models.SubcenterMapFilter{Mode: "heat"})
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestSubcenterLayerQuantileScale(t *testing.T) {
	svc := newTestService(&fakeSource{ds: testDataset()}, nil)
	ctx := context.Background()

	fixed, err := svc.SubcenterLayer(ctx, models.SubcenterMapFilter{})
	require.NoError(t, err)
	quantile, err := svc.SubcenterLayer(ctx, models.SubcenterMapFilter{Scale: "quantile"})
	require.NoError(t, err)
	require.Len(t, quantile.Polygons.Features, 3)

	fill := func(p models.LayerPayload, i int) string {
		return p.Polygons.Features[i].Properties["style"].(models.FeatureStyle).FillColor
	}
	// every total is under the first fixed break, the quantile ramp spreads them
	assert.Equal(t, fill(fixed, 0), fill(fixed, 2))
	assert.NotEqual(t, fill(quantile, 0), fill(quantile, 2))

	_, err = svc.SubcenterLayer(ctx, models.SubcenterMapFilter{Scale: "log"})
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestDensityLayerFiltersDots(t *testing.T) {
	svc := newTestService(&fakeSource{ds: testDataset()}, nil)

	payload, err := svc.DensityLayer(context.Background(), models.DensityFilter{Center: "فارسكور"})
	require.NoError(t, err)
	require.NotNil(t, payload.Points)
	assert.Len(t, payload.Points.Features, 1)
}

func TestDensityLayerPrefixedCenter(t *testing.T) {
	svc := newTestService(&fakeSource{ds: testDataset()}, nil)
	ctx := context.Background()

	for _, center := range []string{"دمياط", "مركز دمياط", " مركز دمياط "} {
		payload, err := svc.DensityLayer(ctx, models.DensityFilter{Center: center})
		require.NoError(t, err, center)
		assert.Len(t, payload.Polygons.Features, 2, center)
		require.NotNil(t, payload.Points, center)
		assert.Len(t, payload.Points.Features, 1, center)
	}
}

func TestSpeciesChartValidation(t *testing.T) {
	svc := newTestService(&fakeSource{ds: testDataset()}, nil)
	ctx := context.Background()

	chart, err := svc.SpeciesChart(ctx, models.ChartFilter{Order: "desc", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, chart.XAxis, 1)

	_, err = svc.SpeciesChart(ctx, models.ChartFilter{Order: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidParam)
	_, err = svc.SpeciesChart(ctx, models.ChartFilter{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestTrendChart(t *testing.T) {
	svc := newTestService(&fakeSource{ds: testDataset()}, nil)
	chart := svc.TrendChart()
	assert.Equal(t, []string{"2020", "2022", "2024"}, chart.XAxis)
}

func TestCenterDrillDown(t *testing.T) {
	svc := newTestService(&fakeSource{ds: testDataset()}, nil)
	ctx := context.Background()

	detail, err := svc.Center(ctx, "مركز دمياط")
	require.NoError(t, err)
	assert.Equal(t, 2, detail.SubcenterCount)

	_, err = svc.Center(ctx, "القاهرة")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Center(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidParam)

	names, err := svc.Centers(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "فارسكور")
}
