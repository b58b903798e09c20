package positions

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
)

// Source is the position-update contract. Production swaps the simulator for
// real collar hardware behind this same interface.
type Source interface {
	Next(animal *herd.Animal, farm *herd.Farm) (lat, lng float64)
}

// SimulatedSource stands in for GPS hardware. Each animal gets a fixed
// angular drift bias derived deterministically from a hash of its ID, plus
// small random jitter, so the wandering is reproducible and visually
// plausible rather than pure noise.
type SimulatedSource struct {
	stepDeg   float64
	jitterDeg float64
}

func NewSimulatedSource(cfg Config) *SimulatedSource {
	return &SimulatedSource{
		stepDeg:   cfg.StepDeg,
		jitterDeg: cfg.JitterDeg,
	}
}

// DriftAngle maps an animal ID onto a stable heading in radians.
func DriftAngle(animalID string) float64 {
	h := fnv.New32a()
	h.Write([]byte(animalID))
	return float64(h.Sum32()%360) * math.Pi / 180
}

func (s *SimulatedSource) Next(animal *herd.Animal, farm *herd.Farm) (float64, float64) {
	angle := DriftAngle(animal.ID)
	lat := *animal.Lat + s.stepDeg*math.Sin(angle) + (rand.Float64()-0.5)*s.jitterDeg
	lng := *animal.Lng + s.stepDeg*math.Cos(angle) + (rand.Float64()-0.5)*s.jitterDeg
	return lat, lng
}
