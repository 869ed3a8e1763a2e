package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_Deterministic(t *testing.T) {
	e := NewEstimator()

	first := e.DistanceKm("Rua A", "Rua B")
	for i := 0; i < 10; i++ {
		if got := e.DistanceKm("Rua A", "Rua B"); got != first {
			t.Fatalf("distance changed between calls: %v != %v", got, first)
		}
	}
}

func TestDistanceKm_Bounds(t *testing.T) {
	e := NewEstimator()

	addresses := []struct {
		origin, destination string
	}{
		{"Rua A", "Rua B"},
		{"Avenida Central 100", "Praca da Se"},
		{"x", "y"},
		{"a long street name somewhere", "another long street name elsewhere"},
	}

	for _, a := range addresses {
		d := e.DistanceKm(a.origin, a.destination)
		if d < 2.0 {
			t.Errorf("DistanceKm(%q, %q) = %v, below the 2.0 floor", a.origin, a.destination, d)
		}
		// One decimal of precision.
		if math.Abs(d*10-math.Round(d*10)) > 1e-9 {
			t.Errorf("DistanceKm(%q, %q) = %v, not rounded to one decimal", a.origin, a.destination, d)
		}
	}
}

func TestDistanceKm_EmptyAddress(t *testing.T) {
	e := NewEstimator()

	if got := e.DistanceKm("", "Rua B"); got != 0 {
		t.Errorf("empty origin: got %v, want 0", got)
	}
	if got := e.DistanceKm("Rua A", ""); got != 0 {
		t.Errorf("empty destination: got %v, want 0", got)
	}
}

func TestDistanceKm_CaseInsensitiveHash(t *testing.T) {
	e := NewEstimator()

	if e.DistanceKm("Rua A", "Rua B") != e.DistanceKm("RUA A", "RUA B") {
		t.Error("hash should be case-insensitive over the address")
	}
}

func TestTravelTimeMinutes_Clamps(t *testing.T) {
	e := NewEstimator()

	tests := []struct {
		name     string
		distance float64
		speed    float64
		want     int
	}{
		{"zero distance", 0, 30, 0},
		{"short hop clamps to minimum", 0.5, 60, 10},
		{"long haul clamps to maximum", 500, 20, 120},
		{"normal trip", 10, 30, 27}, // round(10/30*60) + 7
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.TravelTimeMinutes(tt.distance, tt.speed); got != tt.want {
				t.Errorf("TravelTimeMinutes(%v, %v) = %d, want %d", tt.distance, tt.speed, got, tt.want)
			}
		})
	}
}

func TestTravelTimeMinutes_FallsBackToDefaultSpeed(t *testing.T) {
	e := NewEstimator()

	want := e.TravelTimeMinutes(10, DefaultSpeedKmH)
	if got := e.TravelTimeMinutes(10, 0); got != want {
		t.Errorf("zero speed: got %d, want default-speed result %d", got, want)
	}
}
