package alerts_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/alerts"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/geofence"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
)

// fakeStore implements alerts.Creator in memory while honoring the dedup
// invariant the real store enforces with its transaction + partial index.
type fakeStore struct {
	mu sync.Mutex

	events []*alerts.AlertEvent

	// transientFailures makes the next N Create calls fail with a generic
	// error before behaving normally again.
	transientFailures int
	createCalls       int
}

func (f *fakeStore) Create(ctx context.Context, ownerID, animalID, alertType, message string) (*alerts.AlertEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.transientFailures > 0 {
		f.transientFailures--
		return nil, errors.New("connection reset by peer")
	}

	for _, e := range f.events {
		if e.AnimalID == animalID && e.Type == alertType && !e.Resolved {
			return nil, alerts.ErrDuplicate
		}
	}

	event := &alerts.AlertEvent{
		ID:        animalID + "/" + alertType,
		AnimalID:  animalID,
		Type:      alertType,
		Message:   message,
		CreatedAt: time.Now(),
	}
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeStore) HasOpen(ctx context.Context, animalID, alertType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.AnimalID == animalID && e.Type == alertType && !e.Resolved {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) openCount(animalID, alertType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.AnimalID == animalID && e.Type == alertType && !e.Resolved {
			n++
		}
	}
	return n
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeNotifier) AlertCreated(ownerID string, alert *alerts.AlertEvent, animal *herd.Animal) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testAnimal() *herd.Animal {
	lat, lng := -28.7282, 29.4852
	return &herd.Animal{
		ID:         "animal-1",
		Name:       "Thandi",
		Species:    "cattle",
		Lat:        &lat,
		Lng:        &lng,
		BatteryPct: 90,
		LastSeenAt: time.Now(),
	}
}

// A breach transition creates exactly one alert and notifies exactly once.
func TestTracker_BreachCreatesSingleAlert(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	tracker := alerts.NewTracker(store, notifier)
	animal := testAnimal()

	if err := tracker.Observe(context.Background(), "owner-1", animal, alerts.TypeBoundaryExit, true); err != nil {
		t.Fatalf("observe: %v", err)
	}

	if got := store.openCount(animal.ID, alerts.TypeBoundaryExit); got != 1 {
		t.Errorf("expected 1 open alert, got %d", got)
	}
	if notifier.count() != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.count())
	}
	if !tracker.IsBreached(animal.ID, alerts.TypeBoundaryExit) {
		t.Error("expected tracker state BREACHED")
	}
}

// Repeated breach observations while BREACHED are no-ops.
func TestTracker_RepeatedBreachIsNoop(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	tracker := alerts.NewTracker(store, notifier)
	animal := testAnimal()

	for i := 0; i < 5; i++ {
		if err := tracker.Observe(context.Background(), "owner-1", animal, alerts.TypeBoundaryExit, true); err != nil {
			t.Fatalf("observe %d: %v", i, err)
		}
	}

	if got := store.openCount(animal.ID, alerts.TypeBoundaryExit); got != 1 {
		t.Errorf("expected 1 open alert after repeated breaches, got %d", got)
	}
	if notifier.count() != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.count())
	}
}

// Oscillating outside→inside→outside with the first alert still unresolved
// must not create a second alert: the persisted open alert is the guard, not
// the in-memory state.
func TestTracker_OscillationKeepsSingleOpenAlert(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	tracker := alerts.NewTracker(store, notifier)
	animal := testAnimal()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := tracker.Observe(ctx, "owner-1", animal, alerts.TypeBoundaryExit, true); err != nil {
			t.Fatalf("breach %d: %v", i, err)
		}
		if err := tracker.Observe(ctx, "owner-1", animal, alerts.TypeBoundaryExit, false); err != nil {
			t.Fatalf("clear %d: %v", i, err)
		}
	}

	if got := store.openCount(animal.ID, alerts.TypeBoundaryExit); got != 1 {
		t.Errorf("expected 1 open alert after oscillation, got %d", got)
	}
	// Only the first transition had no open alert, so only it notifies.
	if notifier.count() != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.count())
	}
}

// Clearing the tracker never resolves the persisted alert.
func TestTracker_ClearDoesNotResolve(t *testing.T) {
	store := &fakeStore{}
	tracker := alerts.NewTracker(store, nil)
	animal := testAnimal()
	ctx := context.Background()

	if err := tracker.Observe(ctx, "owner-1", animal, alerts.TypeLowBattery, true); err != nil {
		t.Fatalf("breach: %v", err)
	}
	if err := tracker.Observe(ctx, "owner-1", animal, alerts.TypeLowBattery, false); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if tracker.IsBreached(animal.ID, alerts.TypeLowBattery) {
		t.Error("expected tracker state CLEAR")
	}
	if got := store.openCount(animal.ID, alerts.TypeLowBattery); got != 1 {
		t.Errorf("expected alert to stay open, got %d open", got)
	}
}

// A fresh tracker (e.g. after restart) adopts an existing open alert instead
// of duplicating it.
func TestTracker_RestartDoesNotDuplicate(t *testing.T) {
	store := &fakeStore{}
	animal := testAnimal()
	ctx := context.Background()

	first := alerts.NewTracker(store, nil)
	if err := first.Observe(ctx, "owner-1", animal, alerts.TypeBoundaryExit, true); err != nil {
		t.Fatalf("first tracker: %v", err)
	}

	second := alerts.NewTracker(store, nil)
	if err := second.Observe(ctx, "owner-1", animal, alerts.TypeBoundaryExit, true); err != nil {
		t.Fatalf("second tracker: %v", err)
	}

	if got := store.openCount(animal.ID, alerts.TypeBoundaryExit); got != 1 {
		t.Errorf("expected 1 open alert across restarts, got %d", got)
	}
	if !second.IsBreached(animal.ID, alerts.TypeBoundaryExit) {
		t.Error("expected second tracker to adopt BREACHED state")
	}
}

// Transient store failures are retried; the breach is not lost.
func TestTracker_RetriesTransientFailures(t *testing.T) {
	store := &fakeStore{transientFailures: 2}
	tracker := alerts.NewTracker(store, nil)
	animal := testAnimal()

	if err := tracker.Observe(context.Background(), "owner-1", animal, alerts.TypeBoundaryExit, true); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if store.createCalls != 3 {
		t.Errorf("expected 3 create attempts, got %d", store.createCalls)
	}
	if got := store.openCount(animal.ID, alerts.TypeBoundaryExit); got != 1 {
		t.Errorf("expected 1 open alert, got %d", got)
	}
}

// When all retries fail, the state stays CLEAR so the next observation tries
// again rather than swallowing the breach forever.
func TestTracker_FailedCreateLeavesStateClear(t *testing.T) {
	store := &fakeStore{transientFailures: 100}
	tracker := alerts.NewTracker(store, nil)
	animal := testAnimal()
	ctx := context.Background()

	if err := tracker.Observe(ctx, "owner-1", animal, alerts.TypeBoundaryExit, true); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if tracker.IsBreached(animal.ID, alerts.TypeBoundaryExit) {
		t.Error("expected state to remain CLEAR after failure")
	}

	// Store recovers; the next observation raises the alert.
	store.mu.Lock()
	store.transientFailures = 0
	store.mu.Unlock()
	if err := tracker.Observe(ctx, "owner-1", animal, alerts.TypeBoundaryExit, true); err != nil {
		t.Fatalf("expected success after recovery, got %v", err)
	}
	if got := store.openCount(animal.ID, alerts.TypeBoundaryExit); got != 1 {
		t.Errorf("expected 1 open alert, got %d", got)
	}
}

func TestDetectors(t *testing.T) {
	animal := testAnimal()
	farm := &herd.Farm{CenterLat: -28.7282, CenterLng: 29.4852, RadiusM: 500}

	if alerts.OutsideBoundary(animal, farm) {
		t.Error("animal at center should be inside")
	}

	farAway := 29.6
	animal.Lng = &farAway // ~11km east
	if !alerts.OutsideBoundary(animal, farm) {
		t.Error("animal 11km out should be outside")
	}

	animal.Lat, animal.Lng = nil, nil
	if alerts.OutsideBoundary(animal, farm) {
		t.Error("animal without a fix must never count as outside")
	}

	animal.BatteryPct = 20
	if !alerts.LowBattery(animal) {
		t.Error("20%% battery should report low")
	}
	animal.BatteryPct = 21
	if alerts.LowBattery(animal) {
		t.Error("21%% battery should not report low")
	}

	now := time.Now()
	animal.LastSeenAt = now.Add(-11 * time.Minute)
	if !alerts.Inactive(animal, now) {
		t.Error("11 minutes silent should report inactive")
	}
	animal.LastSeenAt = now.Add(-9 * time.Minute)
	if alerts.Inactive(animal, now) {
		t.Error("9 minutes silent should not report inactive")
	}
}

func TestBreachMessage_TitleCasesSpecies(t *testing.T) {
	animal := testAnimal()
	msg := alerts.BreachMessage(animal, alerts.TypeBoundaryExit)
	if !strings.HasPrefix(msg, "Cattle Thandi") {
		t.Errorf("expected title-cased species prefix, got %q", msg)
	}
}

func TestDeriveStatus(t *testing.T) {
	farm := &herd.Farm{CenterLat: -28.7282, CenterLng: 29.4852, RadiusM: 500}

	animal := testAnimal()
	if got := alerts.DeriveStatus(animal, farm, false); got != herd.StatusSafe {
		t.Errorf("expected SAFE, got %s", got)
	}
	if got := alerts.DeriveStatus(animal, farm, true); got != herd.StatusAlert {
		t.Errorf("expected ALERT with open alert, got %s", got)
	}

	animal.BatteryPct = 15
	if got := alerts.DeriveStatus(animal, farm, false); got != herd.StatusWarning {
		t.Errorf("expected WARNING on low battery, got %s", got)
	}

	animal.BatteryPct = 90
	nearEdge := -28.7282 + 450.0/geofence.EarthRadiusM*180/math.Pi
	animal.Lat = &nearEdge
	if got := alerts.DeriveStatus(animal, farm, false); got != herd.StatusWarning {
		t.Errorf("expected WARNING near boundary, got %s", got)
	}
}
