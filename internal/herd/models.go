package herd

import "time"

// Animal status cached from the alert tracker.
const (
	StatusSafe    = "SAFE"
	StatusWarning = "WARNING"
	StatusAlert   = "ALERT"
)

type Farm struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	OwnerID   string    `gorm:"index" json:"owner_id"`
	Name      string    `json:"name"`
	CenterLat float64   `json:"center_lat"`
	CenterLng float64   `json:"center_lng"`
	RadiusM   float64   `json:"radius_m"`
	AreaHa    *float64  `json:"area_ha,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Animals   []Animal  `gorm:"foreignKey:FarmID" json:"animals,omitempty"`
}

type Animal struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	FarmID     string    `gorm:"index" json:"farm_id"`
	Name       string    `json:"name"`
	TagID      string    `json:"tag_id"`
	Species    string    `json:"species"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	BatteryPct int       `gorm:"default:100" json:"battery_pct"`
	LastSeenAt time.Time `json:"last_seen_at"`
	Status     string    `gorm:"default:'SAFE'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Farm) TableName() string   { return "herdguard.farms" }
func (Animal) TableName() string { return "herdguard.animals" }

// HasPosition reports whether the animal has a known GPS fix. Absence of a
// fix is an expected transient condition, not an error.
func (a *Animal) HasPosition() bool {
	return a.Lat != nil && a.Lng != nil
}
