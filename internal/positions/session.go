package positions

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/alerts"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
	"gorm.io/gorm"
)

// Session is one owner's monitoring loop. The ticker is owned by the session
// and dies with its context; nothing here outlives a Stop or a reconnect.
type Session struct {
	OwnerID   string    `json:"owner_id"`
	StartedAt time.Time `json:"started_at"`

	cancel context.CancelFunc
	done   chan struct{}
}

// Manager runs at most one monitoring session per owner. Starting a second
// session for the same owner cancels the first, so reconnecting clients never
// leak tickers.
type Manager struct {
	db      *gorm.DB
	store   *alerts.Store
	tracker *alerts.Tracker
	source  Source
	cfg     Config

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(db *gorm.DB, store *alerts.Store, tracker *alerts.Tracker, source Source, cfg Config) *Manager {
	return &Manager{
		db:       db,
		store:    store,
		tracker:  tracker,
		source:   source,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Start begins (or restarts) monitoring for the owner.
func (m *Manager) Start(ownerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[ownerID]; ok {
		existing.cancel()
		<-existing.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := &Session{
		OwnerID:   ownerID,
		StartedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	m.sessions[ownerID] = session

	go m.run(ctx, session)
	return session
}

// Stop cancels the owner's session if one is running.
func (m *Manager) Stop(ownerID string) bool {
	m.mu.Lock()
	session, ok := m.sessions[ownerID]
	if ok {
		delete(m.sessions, ownerID)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	session.cancel()
	<-session.done
	return true
}

// Status returns the owner's running session, if any.
func (m *Manager) Status(ownerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[ownerID]
	return session, ok
}

func (m *Manager) run(ctx context.Context, session *Session) {
	defer close(session.done)

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	log.Printf("[monitor] session started for owner %s", session.OwnerID)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[monitor] session stopped for owner %s", session.OwnerID)
			return
		case <-ticker.C:
			m.tick(ctx, session.OwnerID)
		}
	}
}

// tick advances every animal in the owner's herd once: emit a position for
// animals with a fix, then feed all three detectors through the tracker and
// refresh the cached status.
func (m *Manager) tick(ctx context.Context, ownerID string) {
	var farms []herd.Farm
	err := m.db.WithContext(ctx).Preload("Animals").
		Where("owner_id = ?", ownerID).Find(&farms).Error
	if err != nil {
		log.Printf("[monitor] load farms for %s: %v", ownerID, err)
		return
	}

	now := time.Now()
	for fi := range farms {
		farm := &farms[fi]
		for ai := range farm.Animals {
			m.advanceAnimal(ctx, ownerID, farm, &farm.Animals[ai], now)
		}
	}
}

func (m *Manager) advanceAnimal(ctx context.Context, ownerID string, farm *herd.Farm, animal *herd.Animal, now time.Time) {
	if animal.HasPosition() {
		lat, lng := m.source.Next(animal, farm)
		animal.Lat, animal.Lng = &lat, &lng
		animal.LastSeenAt = now
		if m.cfg.BatteryDrainChance > 0 && rand.Float64() < m.cfg.BatteryDrainChance && animal.BatteryPct > 0 {
			animal.BatteryPct--
		}

		err := m.db.WithContext(ctx).Model(animal).Updates(map[string]interface{}{
			"lat":          lat,
			"lng":          lng,
			"last_seen_at": now,
			"battery_pct":  animal.BatteryPct,
		}).Error
		if err != nil {
			log.Printf("[monitor] persist position for animal %s: %v", animal.ID, err)
			return
		}
	} else {
		// No GPS fix yet: expected transient condition, skip emission.
		log.Printf("[monitor] animal %s has no position, skipping emission", animal.ID)
	}

	observations := []struct {
		alertType string
		breached  bool
	}{
		{alerts.TypeBoundaryExit, alerts.OutsideBoundary(animal, farm)},
		{alerts.TypeLowBattery, alerts.LowBattery(animal)},
		{alerts.TypeInactivity, alerts.Inactive(animal, now)},
	}
	for _, obs := range observations {
		if err := m.tracker.Observe(ctx, ownerID, animal, obs.alertType, obs.breached); err != nil {
			log.Printf("[monitor] observe %s for animal %s: %v", obs.alertType, animal.ID, err)
		}
	}

	hasOpen, err := m.store.HasAnyOpen(ctx, animal.ID)
	if err != nil {
		log.Printf("[monitor] open-alert check for animal %s: %v", animal.ID, err)
		return
	}
	status := alerts.DeriveStatus(animal, farm, hasOpen)
	if status != animal.Status {
		if err := m.db.WithContext(ctx).Model(animal).Update("status", status).Error; err != nil {
			log.Printf("[monitor] update status for animal %s: %v", animal.ID, err)
			return
		}
		animal.Status = status
	}
}
