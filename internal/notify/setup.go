package notify

import (
	"context"
	"errors"
	"log"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
	"gorm.io/gorm"
)

// Banners is the process-wide banner feed, shared between the dispatcher and
// the HTTP surface.
var Banners = NewBannerSink()

func Init() {
	if err := db.EnsureSchema(db.DB, "herdguard"); err != nil {
		log.Fatal("Failed to create herdguard schema: ", err)
	}

	if err := db.DB.AutoMigrate(&PushPermission{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}

// DBPermissions reads push grants from the push_permissions table.
type DBPermissions struct{}

func (DBPermissions) PushTarget(ctx context.Context, ownerID string) (string, bool, error) {
	var perm PushPermission
	err := db.DB.WithContext(ctx).First(&perm, "farmer_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return perm.Endpoint, perm.Granted, nil
}

// NewDefaultDispatcher wires the shared banner feed and the DB-gated push
// sink. The durable store sink is implicit: alerts are persisted before
// dispatch ever happens.
func NewDefaultDispatcher() *Dispatcher {
	return NewDispatcher(Banners, NewPushSink(DBPermissions{}))
}
