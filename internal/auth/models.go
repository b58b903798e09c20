package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	FarmerID  string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

type Farmer struct {
	FarmerID       string  `gorm:"primaryKey" json:"farmer_id"`
	Username       string  `gorm:"uniqueIndex" json:"username"`
	Password       string  `json:"password" gorm:"-"`
	HashedPassword string  `json:"-"`
	Role           string  `gorm:"default:'farmer'" json:"role"`
	Session        Session `gorm:"foreignKey:FarmerID" json:"-"`
}

func (Session) TableName() string { return "herdguard_auth.sessions" }
func (Farmer) TableName() string  { return "herdguard_auth.farmers" }
