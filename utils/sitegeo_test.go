package utils

import "testing"

// A unit square around the origin, in each of the GeoJSON containers clients
// actually send.
const (
	squareGeometry = `{"type":"Polygon","coordinates":[[[-1,-1],[1,-1],[1,1],[-1,1],[-1,-1]]]}`
	squareFeature  = `{"type":"Feature","properties":{"name":"yard"},"geometry":` + squareGeometry + `}`
	squareFC       = `{"type":"FeatureCollection","features":[` + squareFeature + `]}`
)

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"bare polygon geometry", squareGeometry, false},
		{"feature", squareFeature, false},
		{"feature collection", squareFC, false},
		{"point only", `{"type":"Point","coordinates":[0,0]}`, true},
		{"empty document", ``, true},
		{"not json", `boundary`, true},
		{"collection without polygons", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area, err := ParseBoundary([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got area with %d polygons", len(area))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(area) != 1 {
				t.Fatalf("expected 1 polygon, got %d", len(area))
			}
		})
	}
}

func TestBoundaryContains(t *testing.T) {
	area, err := ParseBoundary([]byte(squareFC))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		name     string
		lat, lng float64
		inside   bool
	}{
		{"center", 0, 0, true},
		{"near edge inside", 0.99, 0.99, true},
		{"outside east", 0, 1.5, false},
		{"outside north", 2, 0, false},
		{"far away", 48.85, 2.35, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundaryContains(area, tt.lat, tt.lng); got != tt.inside {
				t.Errorf("BoundaryContains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.inside)
			}
		})
	}
}

func TestBoundaryCenter(t *testing.T) {
	area, err := ParseBoundary([]byte(squareGeometry))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	lat, lng := BoundaryCenter(area)
	if lat != 0 || lng != 0 {
		t.Errorf("center of unit square = (%v, %v), want (0, 0)", lat, lng)
	}
}

func TestValidateCoordinate(t *testing.T) {
	if err := ValidateCoordinate(12.97, 77.59); err != nil {
		t.Errorf("valid coordinate rejected: %v", err)
	}
	if err := ValidateCoordinate(91, 0); err == nil {
		t.Error("latitude 91 accepted")
	}
	if err := ValidateCoordinate(0, -181); err == nil {
		t.Error("longitude -181 accepted")
	}
}
