package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/livestock-atlas-go/internal/config"
)

func testPaths() config.PathConfig {
	return config.PathConfig{
		AllData:          "/all-data",
		Summary:          "/heads-per-breeder",
		TypeDistribution: "/animal-types-distribution",
		FatteningDairy:   "/fattening-vs-dairy",
		Dots:             "/dot-density-categorized",
	}
}

func newServer(t *testing.T, override map[string]int) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/all-data":                  `[{"id":1,"sec_name":"دمياط","ssec_name":"أولى","sheep":"30","goats":null,"latitude":31.4,"longitude":31.8}]`,
		"/heads-per-breeder":         `{"data":[{"sec_name":"دمياط","total":1200,"breeders":100}]}`,
		"/animal-types-distribution": `[{"cows_buffalo":10,"sheep_goats":5,"work_animals":1}]`,
		"/fattening-vs-dairy":        `[]`,
		"/dot-density-categorized":   `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[31.8,31.4]},"properties":{"category":"sheep"}}]}`,
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code, ok := override[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestLoad(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()

	c := NewClient(config.SourceConfig{BaseURL: srv.URL + "/", Paths: testPaths(), Timeout: time.Second}, nil)
	ds, err := c.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.AllData, 1)
	assert.Equal(t, 30.0, ds.AllData[0].Measures["sheep"])
	_, hasGoats := ds.AllData[0].Measures["goats"]
	assert.False(t, hasGoats)
	require.Len(t, ds.Summary, 1)
	assert.Equal(t, 1200.0, ds.Summary[0].Measures["total"])
	assert.Len(t, ds.TypeDistribution, 1)
	assert.Empty(t, ds.FatteningDairy)
	require.NotNil(t, ds.Dots)
	assert.Len(t, ds.Dots.Features, 1)
	assert.False(t, ds.LoadedAt.IsZero())
}

func TestLoadWithoutDots(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()

	paths := testPaths()
	paths.Dots = ""
	c := NewClient(config.SourceConfig{BaseURL: srv.URL, Paths: paths, Timeout: time.Second}, nil)
	ds, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ds.Dots)
}

func TestLoadFailsOnAnyStatus(t *testing.T) {
	srv := newServer(t, map[string]int{"/fattening-vs-dairy": http.StatusBadGateway})
	defer srv.Close()

	c := NewClient(config.SourceConfig{BaseURL: srv.URL, Paths: testPaths(), Timeout: time.Second}, nil)
	ds, err := c.Load(context.Background())
	assert.Nil(t, ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestLoadCancelled(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(config.SourceConfig{BaseURL: srv.URL, Paths: testPaths(), Timeout: time.Second}, nil)
	_, err := c.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeRecords(t *testing.T) {
	records, err := DecodeRecords([]byte(" null "))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = DecodeRecords([]byte(`{"data":null}`))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = DecodeRecords([]byte(`[1,2]`))
	assert.Error(t, err)
}
