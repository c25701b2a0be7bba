// Package upstream fetches the dashboard collections from the statistics API
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// ErrStatus is returned when an endpoint answers with a non-2xx status
var ErrStatus = errors.New("unexpected upstream status")

// maxBody caps a single response body
const maxBody = 64 << 20

// Client loads a complete dataset from the upstream API
type Client struct {
	baseURL string
	paths   config.PathConfig
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an upstream client. A zero timeout disables the client deadline.
func NewClient(cfg config.SourceConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		paths:   cfg.Paths,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("upstream"),
	}
}

// Name identifies the source in logs and metrics
func (c *Client) Name() string {
	return config.SourceUpstream
}

// Load fetches every collection concurrently. Any failure fails the whole load.
func (c *Client) Load(ctx context.Context) (*models.Dataset, error) {
	start := time.Now()
	ds := &models.Dataset{}
	results := make([][]models.RegionRecord, len(models.Collections))

	g, ctx := errgroup.WithContext(ctx)
	for i, coll := range models.Collections {
		i, path := i, c.pathFor(coll)
		g.Go(func() error {
			records, err := c.fetchRecords(ctx, path)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}

	if c.paths.Dots != "" {
		g.Go(func() error {
			fc, err := c.fetchFeatures(ctx, c.paths.Dots)
			if err != nil {
				return err
			}
			ds.Dots = fc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn("load failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	for i, coll := range models.Collections {
		ds.SetRecords(coll, results[i])
	}
	ds.LoadedAt = time.Now()

	c.logger.Info("dataset loaded",
		zap.Int("all_data", len(ds.AllData)),
		zap.Int("summary", len(ds.Summary)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

func (c *Client) pathFor(coll models.Collection) string {
	switch coll {
	case models.CollectionAllData:
		return c.paths.AllData
	case models.CollectionSummary:
		return c.paths.Summary
	case models.CollectionTypeDistribution:
		return c.paths.TypeDistribution
	case models.CollectionFatteningDairy:
		return c.paths.FatteningDairy
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return body, nil
}

func (c *Client) fetchRecords(ctx context.Context, path string) ([]models.RegionRecord, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	records, err := DecodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return records, nil
}

func (c *Client) fetchFeatures(ctx context.Context, path string) (*geojson.FeatureCollection, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return fc, nil
}

// DecodeRecords accepts a bare JSON array or an object wrapping it under "data"
func DecodeRecords(body []byte) ([]models.RegionRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, err
		}
		body = wrapped.Data
	}
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []models.RegionRecord{}, nil
	}

	var records []models.RegionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	return records, nil
}
