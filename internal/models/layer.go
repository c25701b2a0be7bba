package models

import geojson "github.com/paulmach/go.geojson"

// FeatureStyle is the per-polygon style descriptor handed to the map host
type FeatureStyle struct {
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"` // Stroke
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
	DashArray   string  `json:"dashArray,omitempty"`
}

// Icon is an embeddable vector marker icon
type Icon struct {
	HTML      string     `json:"html"`
	Size      [2]float64 `json:"size"`
	Anchor    [2]float64 `json:"anchor"`
	ClassName string     `json:"className"`
}

// Marker kinds
const (
	MarkerCircle = "circle"
	MarkerPie    = "pie"
	MarkerBars   = "bars"
)

// Marker is a point symbol placed at a region centroid
type Marker struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Kind      string  `json:"kind"`
	Radius    float64 `json:"radius,omitempty"`
	FillColor string  `json:"fillColor,omitempty"`
	Icon      *Icon   `json:"icon,omitempty"`
	Tooltip   string  `json:"tooltip"`
}

// LegendEntry is one swatch of a layer legend
type LegendEntry struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// Bounds is the south-west / north-east viewport of a layer
type Bounds struct {
	South  float64    `json:"south"`
	West   float64    `json:"west"`
	North  float64    `json:"north"`
	East   float64    `json:"east"`
	Center [2]float64 `json:"center"` // lat, lng
}

// LayerPayload is everything a map host needs to draw one thematic layer
type LayerPayload struct {
	Layer    string                     `json:"layer"`
	Title    string                     `json:"title"`
	Bounds   *Bounds                    `json:"bounds,omitempty"`
	Polygons *geojson.FeatureCollection `json:"polygons"`
	Markers  []Marker                   `json:"markers"`
	Points   *geojson.FeatureCollection `json:"points,omitempty"` // dot-density layer only
	Legend   []LegendEntry              `json:"legend"`
}
