package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Sao Paulo center (-23.55, -46.63) to Guarulhos airport (-23.4356, -46.4731) ~ 20 km
	d := HaversineKm(-23.55, -46.63, -23.4356, -46.4731)
	if d < 15 || d > 25 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineKmSymmetry(t *testing.T) {
	d1 := HaversineKm(-23.55, -46.63, -23.551, -46.631)
	d2 := HaversineKm(-23.551, -46.631, -23.55, -46.63)
	if math.Abs(d1-d2) > 1e-12 {
		t.Fatalf("expected symmetric distance, got %v and %v", d1, d2)
	}
}

func TestHaversineKmIdentity(t *testing.T) {
	if d := HaversineKm(-23.55, -46.63, -23.55, -46.63); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestUnitDirection(t *testing.T) {
	dLat, dLng := UnitDirection(-23.55, -46.63, -23.54, -46.63)
	if dLat <= 0 {
		t.Fatalf("expected positive lat direction, got %v", dLat)
	}
	if dLng != 0 {
		t.Fatalf("expected zero lng direction, got %v", dLng)
	}
}

func TestUnitDirectionZeroDistance(t *testing.T) {
	dLat, dLng := UnitDirection(-23.55, -46.63, -23.55, -46.63)
	if dLat != 0 || dLng != 0 {
		t.Fatalf("expected zero vector, got %v %v", dLat, dLng)
	}
}
