// Package dotdensity filters and counts categorized point features
package dotdensity

import (
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/stats"
)

// All selects every category
const All = "all"

// Feature property keys
const (
	CategoryProperty = "category"
	RegionProperty   = "sec_name"
)

// FilterByCategory returns the features whose trimmed category equals the
// trimmed request. "all" returns the input itself. The input is never modified.
func FilterByCategory(fc *geojson.FeatureCollection, category string) *geojson.FeatureCollection {
	if fc == nil {
		return geojson.NewFeatureCollection()
	}
	want := strings.TrimSpace(category)
	if want == All {
		return fc
	}
	return filter(fc, func(f *geojson.Feature) bool {
		return propertyOf(f, CategoryProperty) == want
	})
}

// FilterByRegion keeps the features hosted by the named region. Both the
// request and each feature's region pass through normalize before comparing;
// nil compares trimmed names.
func FilterByRegion(fc *geojson.FeatureCollection, region string, normalize func(string) string) *geojson.FeatureCollection {
	if fc == nil {
		return geojson.NewFeatureCollection()
	}
	if normalize == nil {
		normalize = strings.TrimSpace
	}
	want := normalize(region)
	if want == "" {
		return fc
	}
	return filter(fc, func(f *geojson.Feature) bool {
		return normalize(propertyOf(f, RegionProperty)) == want
	})
}

func filter(fc *geojson.FeatureCollection, keep func(*geojson.Feature) bool) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		if keep(f) {
			out.AddFeature(f)
		}
	}
	return out
}

// Category returns the trimmed category label of a feature
func Category(f *geojson.Feature) string {
	return propertyOf(f, CategoryProperty)
}

func propertyOf(f *geojson.Feature, key string) string {
	if f == nil {
		return ""
	}
	s, err := f.PropertyString(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// CategoryCount is the number of points carrying one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CountByCategory counts points per category in first-appearance order.
// Points without a category are not counted.
func CountByCategory(fc *geojson.FeatureCollection) []CategoryCount {
	if fc == nil {
		return nil
	}
	groups := stats.GroupBy(fc.Features, Category)
	out := make([]CategoryCount, len(groups))
	for i, g := range groups {
		out[i] = CategoryCount{Category: g.Key, Count: len(g.Items)}
	}
	return out
}

// FromPoints builds a point feature collection from flat rows
func FromPoints(points []models.DotPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewPointFeature([]float64{p.Lng, p.Lat})
		f.SetProperty(CategoryProperty, p.Category)
		f.SetProperty(RegionProperty, p.Name)
		fc.AddFeature(f)
	}
	return fc
}

// ToPoints flattens point features; non-point geometries are skipped
func ToPoints(fc *geojson.FeatureCollection) []models.DotPoint {
	if fc == nil {
		return nil
	}
	out := make([]models.DotPoint, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil || !f.Geometry.IsPoint() || len(f.Geometry.Point) < 2 {
			continue
		}
		out = append(out, models.DotPoint{
			Category: Category(f),
			Name:     propertyOf(f, RegionProperty),
			Lat:      f.Geometry.Point[1],
			Lng:      f.Geometry.Point[0],
		})
	}
	return out
}
