package positions_test

import (
	"math"
	"testing"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/positions"
)

func TestDriftAngle_DeterministicPerID(t *testing.T) {
	a := positions.DriftAngle("animal-1")
	b := positions.DriftAngle("animal-1")
	if a != b {
		t.Errorf("same ID must give same heading: %v vs %v", a, b)
	}
	if a < 0 || a >= 2*math.Pi {
		t.Errorf("heading out of range: %v", a)
	}

	// Different IDs should generally diverge; sample a few.
	ids := []string{"animal-1", "animal-2", "cow-7", "goat-3"}
	headings := map[float64]bool{}
	for _, id := range ids {
		headings[positions.DriftAngle(id)] = true
	}
	if len(headings) < 3 {
		t.Errorf("expected varied headings across IDs, got %d distinct", len(headings))
	}
}

func TestSimulatedSource_DriftsAlongStableHeading(t *testing.T) {
	cfg := positions.Config{
		TickInterval: 1,
		StepDeg:      0.001,
		JitterDeg:    0, // isolate the drift component
	}
	source := positions.NewSimulatedSource(cfg)

	lat, lng := -28.5, 29.0
	animal := &herd.Animal{ID: "animal-1", Lat: &lat, Lng: &lng}
	farm := &herd.Farm{CenterLat: lat, CenterLng: lng, RadiusM: 500}

	angle := positions.DriftAngle(animal.ID)
	wantLat := lat + 0.001*math.Sin(angle)
	wantLng := lng + 0.001*math.Cos(angle)

	gotLat, gotLng := source.Next(animal, farm)
	if math.Abs(gotLat-wantLat) > 1e-12 || math.Abs(gotLng-wantLng) > 1e-12 {
		t.Errorf("got (%v, %v), want (%v, %v)", gotLat, gotLng, wantLat, wantLng)
	}

	// Successive steps walk steadily in the same direction.
	*animal.Lat, *animal.Lng = gotLat, gotLng
	nextLat, nextLng := source.Next(animal, farm)
	if math.Abs((nextLat-gotLat)-(gotLat-lat)) > 1e-12 ||
		math.Abs((nextLng-gotLng)-(gotLng-lng)) > 1e-12 {
		t.Error("expected constant drift step without jitter")
	}
}

func TestSimulatedSource_JitterStaysBounded(t *testing.T) {
	cfg := positions.Config{TickInterval: 1, StepDeg: 0, JitterDeg: 0.0002}
	source := positions.NewSimulatedSource(cfg)

	lat, lng := -28.5, 29.0
	animal := &herd.Animal{ID: "animal-9", Lat: &lat, Lng: &lng}
	farm := &herd.Farm{}

	for i := 0; i < 200; i++ {
		gotLat, gotLng := source.Next(animal, farm)
		if math.Abs(gotLat-lat) > 0.0001 || math.Abs(gotLng-lng) > 0.0001 {
			t.Fatalf("jitter exceeded bound on iteration %d: (%v, %v)", i, gotLat, gotLng)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	good := positions.Config{TickInterval: 1, StepDeg: 0.0003, JitterDeg: 0.0002, BatteryDrainChance: 0.05}
	if err := good.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := []positions.Config{
		{TickInterval: 0},
		{TickInterval: 1, StepDeg: -1},
		{TickInterval: 1, BatteryDrainChance: 1.5},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
