package positions

import (
	"log"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/alerts"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/notify"
)

// DefaultManager is the process-wide session manager, wired in Init.
var DefaultManager *Manager

func Init() {
	cfg := LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid monitor config: ", err)
	}

	store := alerts.NewStore(db.DB)
	tracker := alerts.NewTracker(store, notify.NewDefaultDispatcher())
	DefaultManager = NewManager(db.DB, store, tracker, NewSimulatedSource(cfg), cfg)
}
