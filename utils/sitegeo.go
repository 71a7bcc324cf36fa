package utils

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Site boundaries are stored as GeoJSON on the project row. Clients send
// whatever their mapping tool exported, so a boundary may arrive as a bare
// geometry, a Feature or a FeatureCollection; only polygonal geometry counts.

var ErrNoPolygon = errors.New("boundary contains no polygon geometry")

// ParseBoundary extracts the polygonal area from a GeoJSON document.
func ParseBoundary(raw []byte) (orb.MultiPolygon, error) {
	if len(raw) == 0 {
		return nil, ErrNoPolygon
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("invalid boundary JSON: %w", err)
	}

	var geoms []orb.Geometry
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid feature collection: %w", err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid feature: %w", err)
		}
		geoms = append(geoms, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid geometry: %w", err)
		}
		geoms = append(geoms, g.Geometry())
	}

	var area orb.MultiPolygon
	for _, g := range geoms {
		switch v := g.(type) {
		case orb.Polygon:
			area = append(area, v)
		case orb.MultiPolygon:
			area = append(area, v...)
		}
	}
	if len(area) == 0 {
		return nil, ErrNoPolygon
	}
	return area, nil
}

// BoundaryContains reports whether the point lies inside the boundary.
func BoundaryContains(area orb.MultiPolygon, lat, lng float64) bool {
	return planar.MultiPolygonContains(area, orb.Point{lng, lat})
}

// BoundaryCenter returns the centroid of the boundary, lat/lng.
func BoundaryCenter(area orb.MultiPolygon) (lat, lng float64) {
	c, _ := planar.CentroidArea(area)
	return c.Lat(), c.Lon()
}

// ValidateCoordinate rejects out-of-range latitudes and longitudes.
func ValidateCoordinate(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", lng)
	}
	return nil
}
