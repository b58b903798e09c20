package alerts

import (
	"log"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "herdguard"); err != nil {
		log.Fatal("Failed to create herdguard schema: ", err)
	}

	if err := db.DB.AutoMigrate(&AlertEvent{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	// The dedup invariant lives in storage, not process memory: at most one
	// open alert per (animal, type), enforced even across restarts and
	// concurrent writers.
	err := db.DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_alert_events_open_pair
		ON herdguard.alert_events (animal_id, type)
		WHERE resolved = false
	`).Error
	if err != nil {
		log.Fatal("Failed to create open-alert unique index: ", err)
	}
}
