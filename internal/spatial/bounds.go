// Package spatial computes viewport bounds for map layers
package spatial

import (
	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"

	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// Vertices returns every coordinate of a geometry as lat/lng pairs.
// Invalid coordinates are skipped.
func Vertices(g *geojson.Geometry) []s2.LatLng {
	if g == nil {
		return nil
	}

	var out []s2.LatLng
	add := func(p []float64) {
		if len(p) < 2 {
			return
		}
		ll := s2.LatLngFromDegrees(p[1], p[0])
		if ll.IsValid() {
			out = append(out, ll)
		}
	}

	switch g.Type {
	case geojson.GeometryPoint:
		add(g.Point)
	case geojson.GeometryMultiPoint:
		for _, p := range g.MultiPoint {
			add(p)
		}
	case geojson.GeometryLineString:
		for _, p := range g.LineString {
			add(p)
		}
	case geojson.GeometryMultiLineString:
		for _, line := range g.MultiLineString {
			for _, p := range line {
				add(p)
			}
		}
	case geojson.GeometryPolygon:
		for _, ring := range g.Polygon {
			for _, p := range ring {
				add(p)
			}
		}
	case geojson.GeometryMultiPolygon:
		for _, poly := range g.MultiPolygon {
			for _, ring := range poly {
				for _, p := range ring {
					add(p)
				}
			}
		}
	case geojson.GeometryCollection:
		for _, child := range g.Geometries {
			out = append(out, Vertices(child)...)
		}
	}

	return out
}

// Extent accumulates a lat/lng bounding rectangle
type Extent struct {
	rect s2.Rect
}

// NewExtent returns an empty extent
func NewExtent() *Extent {
	return &Extent{rect: s2.EmptyRect()}
}

// AddLatLng grows the extent to include a point in degrees
func (e *Extent) AddLatLng(lat, lng float64) {
	ll := s2.LatLngFromDegrees(lat, lng)
	if ll.IsValid() {
		e.rect = e.rect.AddPoint(ll)
	}
}

// AddGeometry grows the extent to include every vertex of a geometry
func (e *Extent) AddGeometry(g *geojson.Geometry) {
	for _, ll := range Vertices(g) {
		e.rect = e.rect.AddPoint(ll)
	}
}

// AddRecord includes the record's geometry and centroid
func (e *Extent) AddRecord(r models.RegionRecord) {
	e.AddGeometry(r.Geometry)
	if r.Centroid != nil {
		e.AddLatLng(r.Centroid.Lat, r.Centroid.Lng)
	}
}

// AddFeatures includes every feature geometry of a collection
func (e *Extent) AddFeatures(fc *geojson.FeatureCollection) {
	if fc == nil {
		return
	}
	for _, f := range fc.Features {
		if f != nil {
			e.AddGeometry(f.Geometry)
		}
	}
}

// Bounds returns the viewport, or nil when nothing was added
func (e *Extent) Bounds() *models.Bounds {
	if e.rect.IsEmpty() {
		return nil
	}
	lo, hi, center := e.rect.Lo(), e.rect.Hi(), e.rect.Center()
	return &models.Bounds{
		South:  lo.Lat.Degrees(),
		West:   lo.Lng.Degrees(),
		North:  hi.Lat.Degrees(),
		East:   hi.Lng.Degrees(),
		Center: [2]float64{center.Lat.Degrees(), center.Lng.Degrees()},
	}
}

// RecordBounds is the viewport covering a set of records
func RecordBounds(records []models.RegionRecord) *models.Bounds {
	e := NewExtent()
	for _, r := range records {
		e.AddRecord(r)
	}
	return e.Bounds()
}
