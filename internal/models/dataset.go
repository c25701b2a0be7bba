package models

import (
	"time"

	geojson "github.com/paulmach/go.geojson"
)

// Collection names one of the independently fetched input sets
type Collection string

const (
	CollectionAllData          Collection = "all_data"
	CollectionSummary          Collection = "summary"
	CollectionTypeDistribution Collection = "type_distribution"
	CollectionFatteningDairy   Collection = "fattening_vs_dairy"
)

// Collections lists the record collections in load order
var Collections = []Collection{
	CollectionAllData,
	CollectionSummary,
	CollectionTypeDistribution,
	CollectionFatteningDairy,
}

// Dataset holds every input of one dashboard view.
// It is replaced wholesale on reload and never mutated after construction.
type Dataset struct {
	AllData          []RegionRecord             `json:"all_data"`
	Summary          []RegionRecord             `json:"summary"`
	TypeDistribution []RegionRecord             `json:"type_distribution"`
	FatteningDairy   []RegionRecord             `json:"fattening_vs_dairy"`
	Dots             *geojson.FeatureCollection `json:"dots,omitempty"`
	LoadedAt         time.Time                  `json:"loaded_at"`
}

// Records returns the records of the named collection
func (d *Dataset) Records(c Collection) []RegionRecord {
	switch c {
	case CollectionAllData:
		return d.AllData
	case CollectionSummary:
		return d.Summary
	case CollectionTypeDistribution:
		return d.TypeDistribution
	case CollectionFatteningDairy:
		return d.FatteningDairy
	}
	return nil
}

// SetRecords stores records under the named collection
func (d *Dataset) SetRecords(c Collection, records []RegionRecord) {
	switch c {
	case CollectionAllData:
		d.AllData = records
	case CollectionSummary:
		d.Summary = records
	case CollectionTypeDistribution:
		d.TypeDistribution = records
	case CollectionFatteningDairy:
		d.FatteningDairy = records
	}
}

// DotPoint is the flat form of a categorized dot-density point
type DotPoint struct {
	Category string  `json:"category"`
	Name     string  `json:"sec_name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}
