package alerts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/utils"
	"gorm.io/gorm"
)

// Store is the durable, ownership-scoped alert record store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ownedAnimal loads the animal and verifies the animal → farm → owner chain.
func (s *Store) ownedAnimal(ctx context.Context, ownerID, animalID string) (*herd.Animal, error) {
	var animal herd.Animal
	err := s.db.WithContext(ctx).
		Joins("JOIN herdguard.farms ON herdguard.farms.id = herdguard.animals.farm_id").
		Where("herdguard.animals.id = ? AND herdguard.farms.owner_id = ?", animalID, ownerID).
		First(&animal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &animal, nil
}

// HasOpen reports whether an unresolved alert exists for the (animal, type)
// pair. The tracker consults this persisted check rather than trusting its
// in-process state alone.
func (s *Store) HasOpen(ctx context.Context, animalID, alertType string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&AlertEvent{}).
		Where("animal_id = ? AND type = ? AND resolved = false", animalID, alertType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasAnyOpen reports whether the animal has an unresolved alert of any type.
// Used when deriving the animal's cached status.
func (s *Store) HasAnyOpen(ctx context.Context, animalID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&AlertEvent{}).
		Where("animal_id = ? AND resolved = false", animalID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new unresolved alert after verifying ownership. The
// existence check and insert run inside one transaction, and the partial
// unique index on (animal_id, type) WHERE resolved = false backstops
// concurrent writers that race past the check.
func (s *Store) Create(ctx context.Context, ownerID, animalID, alertType, message string) (*AlertEvent, error) {
	if animalID == "" || alertType == "" || message == "" {
		return nil, ErrValidation
	}
	if _, ok := ValidTypes[alertType]; !ok {
		return nil, ErrValidation
	}

	if _, err := s.ownedAnimal(ctx, ownerID, animalID); err != nil {
		return nil, err
	}

	alert := AlertEvent{
		ID:        utils.GenerateUUID(),
		AnimalID:  animalID,
		Type:      alertType,
		Message:   message,
		CreatedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&AlertEvent{}).
			Where("animal_id = ? AND type = ? AND resolved = false", animalID, alertType).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(&alert).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent writer won the race; the invariant held.
			return nil, ErrDuplicate
		}
		return nil, err
	}

	return &alert, nil
}

// List returns all alerts for the owner's animals, newest first.
func (s *Store) List(ctx context.Context, ownerID string) ([]AlertEvent, error) {
	var events []AlertEvent
	err := s.db.WithContext(ctx).
		Joins("JOIN herdguard.animals ON herdguard.animals.id = herdguard.alert_events.animal_id").
		Joins("JOIN herdguard.farms ON herdguard.farms.id = herdguard.animals.farm_id").
		Where("herdguard.farms.owner_id = ?", ownerID).
		Order("herdguard.alert_events.created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Resolve toggles an alert's resolved flag. Resolving stamps ResolvedAt with
// the current time, even when re-resolving after an unresolve; unresolving
// clears it. The update is guarded on the previously read resolved flag so a
// concurrent toggle surfaces as ErrConflict instead of silently clobbering.
func (s *Store) Resolve(ctx context.Context, ownerID, alertID string, resolved bool) (*AlertEvent, error) {
	if alertID == "" {
		return nil, ErrValidation
	}

	var alert AlertEvent
	err := s.db.WithContext(ctx).First(&alert, "id = ?", alertID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.ownedAnimal(ctx, ownerID, alert.AnimalID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// The alert exists; the caller just doesn't own its farm chain.
			return nil, ErrForbidden
		}
		return nil, err
	}

	updates := map[string]interface{}{"resolved": resolved}
	if resolved {
		now := time.Now()
		updates["resolved_at"] = &now
	} else {
		updates["resolved_at"] = nil
	}

	res := s.db.WithContext(ctx).Model(&AlertEvent{}).
		Where("id = ? AND resolved = ?", alertID, alert.Resolved).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Someone toggled it between our read and write.
		if err := s.db.WithContext(ctx).First(&alert, "id = ?", alertID).Error; err == nil && alert.Resolved == resolved {
			return &alert, nil
		}
		return nil, ErrConflict
	}

	if err := s.db.WithContext(ctx).First(&alert, "id = ?", alertID).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// OwnedAnimal is the exported ownership check used by the monitor session to
// scope its work to the caller's herd.
func (s *Store) OwnedAnimal(ctx context.Context, ownerID, animalID string) (*herd.Animal, error) {
	return s.ownedAnimal(ctx, ownerID, animalID)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// Postgres unique_violation is SQLSTATE 23505; gorm surfaces it both as
	// ErrDuplicatedKey and as the driver error text.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key value")
}
