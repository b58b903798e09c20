package alerts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/geofence"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// LowBatteryThreshold is the battery percentage at or below which a
	// LOW_BATTERY breach is reported.
	LowBatteryThreshold = 20

	// InactivityWindow is how long an animal may go without a position
	// update before an INACTIVITY breach is reported.
	InactivityWindow = 10 * time.Minute

	// warningRadiusRatio marks the band near the boundary that demotes an
	// otherwise safe animal to WARNING.
	warningRadiusRatio = 0.8
)

// Creator is the slice of the store the tracker needs: atomic deduplicated
// creation plus the persisted open-alert check.
type Creator interface {
	Create(ctx context.Context, ownerID, animalID, alertType, message string) (*AlertEvent, error)
	HasOpen(ctx context.Context, animalID, alertType string) (bool, error)
}

// Notifier receives freshly created alerts for fan-out. Implementations must
// not block; the tracker calls this inline on the breach path.
type Notifier interface {
	AlertCreated(ownerID string, alert *AlertEvent, animal *herd.Animal)
}

type stateKey struct {
	animalID  string
	alertType string
}

// Tracker is the per-(animal, type) hysteresis state machine. The in-memory
// state only suppresses repeat work while the process lives; the dedup
// guarantee itself is the store's, so a restart or a second producer cannot
// create duplicates.
type Tracker struct {
	store    Creator
	notifier Notifier

	mu       sync.Mutex
	breached map[stateKey]bool

	maxAttempts int
	baseBackoff time.Duration
}

func NewTracker(store Creator, notifier Notifier) *Tracker {
	return &Tracker{
		store:       store,
		notifier:    notifier,
		breached:    make(map[stateKey]bool),
		maxAttempts: 3,
		baseBackoff: 250 * time.Millisecond,
	}
}

// Observe feeds one detector result into the state machine. A CLEAR→BREACHED
// transition creates exactly one alert; repeated breaches while BREACHED are
// no-ops; clearing only flips tracker state and never resolves the persisted
// alert (resolution stays an explicit human action).
func (t *Tracker) Observe(ctx context.Context, ownerID string, animal *herd.Animal, alertType string, breached bool) error {
	key := stateKey{animalID: animal.ID, alertType: alertType}

	if !breached {
		t.mu.Lock()
		t.breached[key] = false
		t.mu.Unlock()
		return nil
	}

	t.mu.Lock()
	already := t.breached[key]
	t.mu.Unlock()
	if already {
		return nil
	}

	alert, err := t.createWithRetry(ctx, ownerID, animal, alertType)
	if errors.Is(err, ErrDuplicate) {
		// Open alert already persisted (restart or concurrent producer);
		// adopt the breached state without raising a second alert.
		t.setBreached(key)
		return nil
	}
	if err != nil {
		// State stays CLEAR so the next observation tries again; a breach
		// must never be silently lost.
		return err
	}

	t.setBreached(key)
	if t.notifier != nil {
		t.notifier.AlertCreated(ownerID, alert, animal)
	}
	return nil
}

func (t *Tracker) setBreached(key stateKey) {
	t.mu.Lock()
	t.breached[key] = true
	t.mu.Unlock()
}

// createWithRetry retries transient store failures with capped exponential
// backoff. Validation/ownership/duplicate outcomes are final and returned
// immediately.
func (t *Tracker) createWithRetry(ctx context.Context, ownerID string, animal *herd.Animal, alertType string) (*AlertEvent, error) {
	backoff := t.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		alert, err := t.store.Create(ctx, ownerID, animal.ID, alertType, BreachMessage(animal, alertType))
		if err == nil {
			return alert, nil
		}
		if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		lastErr = err
		log.Printf("[tracker] create %s for animal %s failed (attempt %d/%d): %v",
			alertType, animal.ID, attempt, t.maxAttempts, err)
		if attempt == t.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("create alert after %d attempts: %w", t.maxAttempts, lastErr)
}

// IsBreached exposes the in-memory state for tests and status derivation.
func (t *Tracker) IsBreached(animalID, alertType string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.breached[stateKey{animalID: animalID, alertType: alertType}]
}

// Detectors. Each returns whether the underlying condition currently holds;
// the tracker turns edges of these signals into alerts.

// OutsideBoundary reports a boundary breach. Animals without a GPS fix are
// never considered outside; a missing fix is a transient condition.
func OutsideBoundary(animal *herd.Animal, farm *herd.Farm) bool {
	if !animal.HasPosition() {
		return false
	}
	return geofence.IsOutside(*animal.Lat, *animal.Lng, farm.CenterLat, farm.CenterLng, farm.RadiusM)
}

func LowBattery(animal *herd.Animal) bool {
	return animal.BatteryPct <= LowBatteryThreshold
}

func Inactive(animal *herd.Animal, now time.Time) bool {
	return now.Sub(animal.LastSeenAt) > InactivityWindow
}

var speciesCaser = cases.Title(language.English)

// BreachMessage builds the human-readable message for a new alert.
func BreachMessage(animal *herd.Animal, alertType string) string {
	species := speciesCaser.String(animal.Species)
	if species == "" {
		species = "Animal"
	}
	switch alertType {
	case TypeBoundaryExit:
		return fmt.Sprintf("%s %s has left the farm boundary", species, animal.Name)
	case TypeLowBattery:
		return fmt.Sprintf("%s %s's tracker battery is at %d%%", species, animal.Name, animal.BatteryPct)
	case TypeInactivity:
		return fmt.Sprintf("%s %s has not reported a position recently", species, animal.Name)
	default:
		return fmt.Sprintf("%s %s needs attention", species, animal.Name)
	}
}

// DeriveStatus computes the cached animal status: ALERT while any alert is
// open, WARNING when battery is low or the animal is in the outer band of the
// boundary, SAFE otherwise.
func DeriveStatus(animal *herd.Animal, farm *herd.Farm, hasOpenAlert bool) string {
	if hasOpenAlert {
		return herd.StatusAlert
	}
	if LowBattery(animal) {
		return herd.StatusWarning
	}
	if animal.HasPosition() {
		d := geofence.Distance(*animal.Lat, *animal.Lng, farm.CenterLat, farm.CenterLng)
		if d >= warningRadiusRatio*farm.RadiusM {
			return herd.StatusWarning
		}
	}
	return herd.StatusSafe
}
