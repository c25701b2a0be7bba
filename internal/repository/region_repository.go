package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	geojson "github.com/paulmach/go.geojson"

	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/database"
	"github.com/jengzang/livestock-atlas-go/internal/dotdensity"
	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// RegionRepository stores dataset snapshots in sqlite
type RegionRepository struct {
	db *sql.DB
}

// NewRegionRepository creates a new region repository
func NewRegionRepository(db *sql.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// Name identifies the source in logs and metrics
func (r *RegionRepository) Name() string {
	return config.SourceSQLite
}

// SaveDataset replaces the stored snapshot with ds
func (r *RegionRepository) SaveDataset(ctx context.Context, ds *models.Dataset) error {
	if ds == nil {
		return fmt.Errorf("failed to save dataset: nil dataset")
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{"DELETE FROM region_records", "DELETE FROM dot_points", "DELETE FROM snapshots"} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to clear snapshot: %w", err)
			}
		}

		insert, err := tx.PrepareContext(ctx, `
			INSERT INTO region_records
				(collection, position, record_id, sec_name, ssec_name, geometry, latitude, longitude, measures, attributes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare region insert: %w", err)
		}
		defer insert.Close()

		for _, coll := range models.Collections {
			for i, rec := range ds.Records(coll) {
				if err := insertRecord(ctx, insert, coll, i, rec); err != nil {
					return err
				}
			}
		}

		dots, err := tx.PrepareContext(ctx, `INSERT INTO dot_points (category, sec_name, latitude, longitude) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare dot insert: %w", err)
		}
		defer dots.Close()

		for _, p := range dotdensity.ToPoints(ds.Dots) {
			if _, err := dots.ExecContext(ctx, p.Category, p.Name, p.Lat, p.Lng); err != nil {
				return fmt.Errorf("failed to insert dot point: %w", err)
			}
		}

		loadedAt := ds.LoadedAt
		if loadedAt.IsZero() {
			loadedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO snapshots (id, loaded_at) VALUES (1, ?)", loadedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to record snapshot time: %w", err)
		}
		return nil
	})
}

func insertRecord(ctx context.Context, stmt *sql.Stmt, coll models.Collection, position int, rec models.RegionRecord) error {
	var geometry sql.NullString
	if rec.Geometry != nil {
		b, err := json.Marshal(rec.Geometry)
		if err != nil {
			return fmt.Errorf("failed to encode geometry of %s: %w", rec.ID, err)
		}
		geometry = sql.NullString{String: string(b), Valid: true}
	}

	var lat, lng sql.NullFloat64
	if rec.Centroid != nil {
		lat = sql.NullFloat64{Float64: rec.Centroid.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: rec.Centroid.Lng, Valid: true}
	}

	measures, err := json.Marshal(nonNil(rec.Measures))
	if err != nil {
		return fmt.Errorf("failed to encode measures of %s: %w", rec.ID, err)
	}
	attributes, err := json.Marshal(nonNilStrings(rec.Attributes))
	if err != nil {
		return fmt.Errorf("failed to encode attributes of %s: %w", rec.ID, err)
	}

	if _, err := stmt.ExecContext(ctx, string(coll), position, rec.ID, rec.Name, rec.SubName,
		geometry, lat, lng, string(measures), string(attributes)); err != nil {
		return fmt.Errorf("failed to insert region record: %w", err)
	}
	return nil
}

// ListRecords returns one collection in stored order
func (r *RegionRepository) ListRecords(ctx context.Context, coll models.Collection) ([]models.RegionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT record_id, sec_name, ssec_name, geometry, latitude, longitude, measures, attributes
		FROM region_records
		WHERE collection = ?
		ORDER BY position`, string(coll))
	if err != nil {
		return nil, fmt.Errorf("failed to query region records: %w", err)
	}
	defer rows.Close()

	records := []models.RegionRecord{}
	for rows.Next() {
		var (
			rec                  models.RegionRecord
			geometry             sql.NullString
			lat, lng             sql.NullFloat64
			measures, attributes string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.SubName, &geometry, &lat, &lng, &measures, &attributes); err != nil {
			return nil, fmt.Errorf("failed to scan region record: %w", err)
		}

		if geometry.Valid {
			rec.Geometry = models.ParseGeometry([]byte(geometry.String))
		}
		if lat.Valid && lng.Valid {
			rec.Centroid = &models.LatLng{Lat: lat.Float64, Lng: lng.Float64}
		}
		if err := json.Unmarshal([]byte(measures), &rec.Measures); err != nil {
			return nil, fmt.Errorf("failed to decode measures of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(attributes), &rec.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode attributes of %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate region records: %w", err)
	}
	return records, nil
}

// ListDots returns the stored dots, optionally narrowed to one category
func (r *RegionRepository) ListDots(ctx context.Context, category string) (*geojson.FeatureCollection, error) {
	query := "SELECT category, sec_name, latitude, longitude FROM dot_points"
	var args []interface{}
	if category != "" && category != dotdensity.All {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dot points: %w", err)
	}
	defer rows.Close()

	var points []models.DotPoint
	for rows.Next() {
		var p models.DotPoint
		if err := rows.Scan(&p.Category, &p.Name, &p.Lat, &p.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan dot point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dot points: %w", err)
	}
	return dotdensity.FromPoints(points), nil
}

// Load reads the whole stored snapshot
func (r *RegionRepository) Load(ctx context.Context) (*models.Dataset, error) {
	ds := &models.Dataset{}
	for _, coll := range models.Collections {
		records, err := r.ListRecords(ctx, coll)
		if err != nil {
			return nil, err
		}
		ds.SetRecords(coll, records)
	}

	dots, err := r.ListDots(ctx, dotdensity.All)
	if err != nil {
		return nil, err
	}
	ds.Dots = dots

	var loadedAt sql.NullString
	err = r.db.QueryRowContext(ctx, "SELECT loaded_at FROM snapshots WHERE id = 1").Scan(&loadedAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read snapshot time: %w", err)
	}
	if loadedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, loadedAt.String); err == nil {
			ds.LoadedAt = t
		}
	}
	return ds, nil
}

func nonNil(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func nonNilStrings(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
