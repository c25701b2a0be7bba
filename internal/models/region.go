package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"
)

// LatLng is a marker position in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RegionRecord is one spatial unit (center or sub-center) as delivered by the data source
type RegionRecord struct {
	ID         string             `json:"id"`
	Name       string             `json:"sec_name"`            // Center name
	SubName    string             `json:"ssec_name,omitempty"` // Sub-center name
	Attributes map[string]string  `json:"attributes,omitempty"`
	Geometry   *geojson.Geometry  `json:"geom,omitempty"`
	Centroid   *LatLng            `json:"centroid,omitempty"`
	Measures   map[string]float64 `json:"measures"`
}

// Wire keys recognised when decoding upstream rows
var (
	idKeys       = []string{"id", "sec_id", "ssec_id"}
	nameKeys     = []string{"sec_name", "markaz"}
	subNameKeys  = []string{"ssec_name", "SSEC_NAME", "shiaka"}
	geometryKeys = []string{"geom", "geometry", "geojson"}
	latKeys      = []string{"latitude", "lat"}
	lngKeys      = []string{"longitude", "lng", "lon"}
)

// Dimension returns a trimmed string attribute of the record
func (r RegionRecord) Dimension(key string) string {
	switch key {
	case "id":
		return strings.TrimSpace(r.ID)
	case "sec_name", "name":
		return strings.TrimSpace(r.Name)
	case "ssec_name", "sub_name":
		return strings.TrimSpace(r.SubName)
	}
	return strings.TrimSpace(r.Attributes[key])
}

// DisplayName prefers the sub-center name, falling back to the center name
func (r RegionRecord) DisplayName() string {
	if name := strings.TrimSpace(r.SubName); name != "" {
		return name
	}
	return strings.TrimSpace(r.Name)
}

// HasGeometry reports whether the record can be drawn as a polygon
func (r RegionRecord) HasGeometry() bool {
	return r.Geometry != nil
}

// HasCentroid reports whether the record can carry a marker
func (r RegionRecord) HasCentroid() bool {
	return r.Centroid != nil
}

// UnmarshalJSON decodes the flat upstream row shape.
// Unknown numeric columns become measures, other strings become attributes.
// Malformed geometry or coordinates are dropped rather than reported.
func (r *RegionRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode region record: %w", err)
	}

	*r = RegionRecord{
		Attributes: make(map[string]string),
		Measures:   make(map[string]float64),
	}

	// Nested shape written by MarshalJSON
	if nested, ok := raw["measures"]; ok {
		var measures map[string]*float64
		if err := json.Unmarshal(nested, &measures); err == nil {
			for k, v := range measures {
				if v != nil {
					r.setMeasure(k, *v)
				}
			}
		}
		delete(raw, "measures")
	}
	if nested, ok := raw["attributes"]; ok {
		var attrs map[string]string
		if err := json.Unmarshal(nested, &attrs); err == nil {
			for k, v := range attrs {
				r.Attributes[k] = v
			}
		}
		delete(raw, "attributes")
	}
	if nested, ok := raw["centroid"]; ok {
		var ll *LatLng
		if err := json.Unmarshal(nested, &ll); err == nil && ll != nil {
			r.Centroid = validCentroid(ll.Lat, ll.Lng)
		}
		delete(raw, "centroid")
	}

	r.ID = takeString(raw, idKeys)
	r.Name = takeString(raw, nameKeys)
	r.SubName = takeString(raw, subNameKeys)
	r.Geometry = takeGeometry(raw, geometryKeys)

	lat, latOK := takeNumber(raw, latKeys)
	lng, lngOK := takeNumber(raw, lngKeys)
	if latOK && lngOK && r.Centroid == nil {
		r.Centroid = validCentroid(lat, lng)
	}

	for key, value := range raw {
		if isNull(value) {
			continue
		}
		if v, ok := parseNumber(value); ok {
			r.setMeasure(key, v)
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			r.Attributes[key] = s
		}
	}

	return nil
}

// MarshalJSON writes the record in a shape UnmarshalJSON reads back
func (r RegionRecord) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"id":       r.ID,
		"sec_name": r.Name,
		"measures": r.Measures,
	}
	if r.SubName != "" {
		out["ssec_name"] = r.SubName
	}
	if len(r.Attributes) > 0 {
		out["attributes"] = r.Attributes
	}
	if r.Geometry != nil {
		out["geom"] = r.Geometry
	}
	if r.Centroid != nil {
		out["centroid"] = r.Centroid
	}
	return json.Marshal(out)
}

func (r *RegionRecord) setMeasure(key string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if v < 0 {
		v = 0
	}
	r.Measures[key] = v
}

// validCentroid rejects out-of-range coordinates and the (0,0) placeholder
func validCentroid(lat, lng float64) *LatLng {
	if lat == 0 && lng == 0 {
		return nil
	}
	if !s2.LatLngFromDegrees(lat, lng).IsValid() {
		return nil
	}
	return &LatLng{Lat: lat, Lng: lng}
}

func takeString(raw map[string]json.RawMessage, keys []string) string {
	var result string
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		delete(raw, key)
		if result != "" {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			result = strings.TrimSpace(s)
			continue
		}
		if v, ok := parseNumber(value); ok {
			result = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return result
}

func takeNumber(raw map[string]json.RawMessage, keys []string) (float64, bool) {
	var (
		result float64
		found  bool
	)
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		delete(raw, key)
		if found {
			continue
		}
		if v, ok := parseNumber(value); ok {
			result, found = v, true
		}
	}
	return result, found
}

func takeGeometry(raw map[string]json.RawMessage, keys []string) *geojson.Geometry {
	var result *geojson.Geometry
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		delete(raw, key)
		if result == nil {
			result = ParseGeometry(value)
		}
	}
	return result
}

// ParseGeometry accepts a GeoJSON geometry, a Feature wrapping one, or either
// of those encoded as a JSON string. Anything else yields nil.
func ParseGeometry(value []byte) *geojson.Geometry {
	value = bytes.TrimSpace(value)
	if isNull(value) {
		return nil
	}

	if value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil
		}
		return ParseGeometry([]byte(s))
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(value, &head); err != nil {
		return nil
	}

	switch head.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(value)
		if err != nil || f.Geometry == nil {
			return nil
		}
		return f.Geometry
	case "":
		return nil
	}

	g, err := geojson.UnmarshalGeometry(value)
	if err != nil {
		return nil
	}
	return g
}

// parseNumber accepts JSON numbers and numeric strings; null and NaN are absent
func parseNumber(value json.RawMessage) (float64, bool) {
	if isNull(value) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(value, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNull(value []byte) bool {
	value = bytes.TrimSpace(value)
	return len(value) == 0 || bytes.Equal(value, []byte("null"))
}
