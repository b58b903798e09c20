// herd-sim walks one simulated animal against a circular boundary and prints
// breach transitions as they happen. Useful for eyeballing drift/jitter
// settings without a database or a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/geofence"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/positions"
)

func main() {
	animalID := flag.String("animal-id", "sim-animal-1", "Animal identifier (drives the drift heading)")
	centerLat := flag.Float64("center-lat", -28.7282, "Boundary center latitude")
	centerLng := flag.Float64("center-lng", 29.4852, "Boundary center longitude")
	radiusM := flag.Float64("radius", 500, "Boundary radius in meters")
	interval := flag.Duration("interval", 1*time.Second, "Interval between simulated emissions")
	stepDeg := flag.Float64("step", 0.0003, "Drift step per emission in degrees")
	jitterDeg := flag.Float64("jitter", 0.0002, "Random jitter bound in degrees")

	flag.Parse()

	cfg := positions.Config{
		TickInterval: *interval,
		StepDeg:      *stepDeg,
		JitterDeg:    *jitterDeg,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	source := positions.NewSimulatedSource(cfg)

	lat, lng := *centerLat, *centerLng
	animal := &herd.Animal{ID: *animalID, Name: *animalID, Lat: &lat, Lng: &lng}
	farm := &herd.Farm{CenterLat: *centerLat, CenterLng: *centerLng, RadiusM: *radiusM}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("animal %s heading %.0f°, boundary %.0fm\n",
		*animalID, positions.DriftAngle(*animalID)*180/math.Pi, *radiusM)

	outside := false
	for {
		select {
		case <-ctx.Done():
			log.Print("received shutdown signal, stopping")
			return
		case <-ticker.C:
			newLat, newLng := source.Next(animal, farm)
			*animal.Lat, *animal.Lng = newLat, newLng

			d := geofence.Distance(newLat, newLng, *centerLat, *centerLng)
			nowOutside := d > *radiusM
			switch {
			case nowOutside && !outside:
				fmt.Printf("BREACH   %.6f,%.6f  %.1fm from center\n", newLat, newLng, d)
			case !nowOutside && outside:
				fmt.Printf("RETURNED %.6f,%.6f  %.1fm from center\n", newLat, newLng, d)
			default:
				fmt.Printf("tick     %.6f,%.6f  %.1fm\n", newLat, newLng, d)
			}
			outside = nowOutside
		}
	}
}
