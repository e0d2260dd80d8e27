package geo

import (
	"encoding/json"
	"fmt"
)

// FeatureType is the detected infrastructure category.
type FeatureType string

const (
	TypeSidewalk  FeatureType = "sidewalk"
	TypeCrosswalk FeatureType = "crosswalk"
	TypeRoad      FeatureType = "road"
	TypeUnknown   FeatureType = "unknown"
)

// NormalizeFeatureType maps a raw category string onto the known set.
func NormalizeFeatureType(raw string) FeatureType {
	switch FeatureType(raw) {
	case TypeSidewalk, TypeCrosswalk, TypeRoad:
		return FeatureType(raw)
	default:
		return TypeUnknown
	}
}

// Status tags a feature after comparison or validation.
type Status string

const (
	StatusAdded     Status = "added"
	StatusRemoved   Status = "removed"
	StatusUnchanged Status = "unchanged"

	StatusTruePositive  Status = "true_positive"
	StatusFalsePositive Status = "false_positive"
	StatusFalseNegative Status = "false_negative"
)

// Kind identifies which variant of a year's data a collection holds.
type Kind string

const (
	KindNetwork   Kind = "network"
	KindPolygons  Kind = "polygons"
	KindReference Kind = "reference"
)

// Point is a 2D position in degrees, serialised as a GeoJSON
// [lng, lat] pair.
type Point struct {
	Lng float64
	Lat float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lng, p.Lat})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) < 2 {
		return fmt.Errorf("position needs 2 coordinates, got %d", len(coords))
	}
	p.Lng, p.Lat = coords[0], coords[1]
	return nil
}

// GeometryType discriminates the geometry union.
type GeometryType string

const (
	LineString GeometryType = "LineString"
	Polygon    GeometryType = "Polygon"
)

// Geometry is a LineString or Polygon. Only one of Line/Rings is
// populated, matching Type. Unrecognised GeoJSON geometry types decode
// to an empty Geometry, which the metric functions treat as degenerate.
type Geometry struct {
	Type  GeometryType
	Line  []Point   // LineString vertices
	Rings [][]Point // Polygon rings; Rings[0] is the outer ring
}

type geometryJSON struct {
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	switch g.Type {
	case LineString:
		return json.Marshal(struct {
			Type        GeometryType `json:"type"`
			Coordinates []Point      `json:"coordinates"`
		}{g.Type, g.Line})
	case Polygon:
		return json.Marshal(struct {
			Type        GeometryType `json:"type"`
			Coordinates [][]Point    `json:"coordinates"`
		}{g.Type, g.Rings})
	default:
		return []byte("null"), nil
	}
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	var raw geometryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case LineString:
		g.Type = LineString
		return json.Unmarshal(raw.Coordinates, &g.Line)
	case Polygon:
		g.Type = Polygon
		return json.Unmarshal(raw.Coordinates, &g.Rings)
	default:
		// Unknown geometry types are kept as degenerate rather than
		// rejected, so one odd feature cannot sink a whole year.
		*g = Geometry{}
		return nil
	}
}

// Properties is the feature property bag. Extra upstream properties
// are dropped at decode; only the fields the engine consumes survive.
type Properties struct {
	FeatureType FeatureType `json:"feature_type,omitempty"`
	LengthM     *float64    `json:"length_m,omitempty"`
	Year        *int        `json:"year,omitempty"`

	// Set on tagged copies produced by comparison/validation.
	Status   Status `json:"status,omitempty"`
	FromYear *int   `json:"from_year,omitempty"`
	ToYear   *int   `json:"to_year,omitempty"`
}

// Feature is one detected or reference element.
type Feature struct {
	ID       string     `json:"id,omitempty"`
	Geometry Geometry   `json:"geometry"`
	Props    Properties `json:"properties"`
}

type featureJSON struct {
	Type       string     `json:"type"`
	ID         string     `json:"id,omitempty"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

func (f Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(featureJSON{
		Type:       "Feature",
		ID:         f.ID,
		Geometry:   f.Geometry,
		Properties: f.Props,
	})
}

func (f *Feature) UnmarshalJSON(data []byte) error {
	var raw featureJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.ID = raw.ID
	f.Geometry = raw.Geometry
	f.Props = raw.Properties
	f.Props.FeatureType = NormalizeFeatureType(string(raw.Properties.FeatureType))
	return nil
}

// Tagged returns a copy of f with classification status and the year
// span it was derived from. The receiver is never mutated.
func (f Feature) Tagged(status Status, fromYear, toYear int) Feature {
	out := f
	out.Props.Status = status
	out.Props.FromYear = &fromYear
	out.Props.ToYear = &toYear
	return out
}

// FeatureCollection is one (kind, year) snapshot.
type FeatureCollection struct {
	Kind     Kind      `json:"-"`
	Year     int       `json:"-"`
	Features []Feature `json:"features"`
}

type collectionJSON struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func (c FeatureCollection) MarshalJSON() ([]byte, error) {
	feats := c.Features
	if feats == nil {
		feats = []Feature{}
	}
	return json.Marshal(collectionJSON{Type: "FeatureCollection", Features: feats})
}

func (c *FeatureCollection) UnmarshalJSON(data []byte) error {
	var raw collectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Features = raw.Features
	return nil
}
