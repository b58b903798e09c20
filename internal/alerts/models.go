package alerts

import "time"

// Alert types raised by the tracker.
const (
	TypeBoundaryExit = "BOUNDARY_EXIT"
	TypeLowBattery   = "LOW_BATTERY"
	TypeInactivity   = "INACTIVITY"
)

// ValidTypes is the closed set of alert types accepted on create.
var ValidTypes = map[string]struct{}{
	TypeBoundaryExit: {},
	TypeLowBattery:   {},
	TypeInactivity:   {},
}

// AlertEvent is one raised incident for an animal. At most one unresolved
// event may exist per (animal_id, type) pair; a partial unique index created
// in Init enforces this at the storage layer.
type AlertEvent struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	AnimalID   string     `gorm:"index" json:"animal_id"`
	Type       string     `json:"type"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
	Resolved   bool       `gorm:"default:false" json:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func (AlertEvent) TableName() string { return "herdguard.alert_events" }
