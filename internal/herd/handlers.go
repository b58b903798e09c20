package herd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/geofence"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/utils"
	"gorm.io/gorm"
)

func CreateFarmHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var input struct {
		Name      string   `json:"name"`
		CenterLat float64  `json:"center_lat"`
		CenterLng float64  `json:"center_lng"`
		RadiusM   float64  `json:"radius_m"`
		AreaHa    *float64 `json:"area_ha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Name == "" || input.RadiusM <= 0 {
		http.Error(w, "Name and a positive boundary radius are required", http.StatusBadRequest)
		return
	}

	farm := Farm{
		ID:        utils.GenerateUUID(),
		OwnerID:   userID,
		Name:      input.Name,
		CenterLat: input.CenterLat,
		CenterLng: input.CenterLng,
		RadiusM:   input.RadiusM,
		AreaHa:    input.AreaHa,
		CreatedAt: time.Now(),
	}
	if err := db.DB.Create(&farm).Error; err != nil {
		http.Error(w, "Failed to create farm", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(farm)
}

func ListFarmsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var farms []Farm
	if err := db.DB.Preload("Animals").Where("owner_id = ?", userID).Find(&farms).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(farms)
}

func UpdateFarmHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	farmID := chi.URLParam(r, "id")
	var farm Farm
	if err := db.DB.First(&farm, "id = ? AND owner_id = ?", farmID, userID).Error; err != nil {
		http.Error(w, "Farm not found", http.StatusNotFound)
		return
	}

	var input struct {
		Name      *string  `json:"name"`
		CenterLat *float64 `json:"center_lat"`
		CenterLng *float64 `json:"center_lng"`
		RadiusM   *float64 `json:"radius_m"`
		AreaHa    *float64 `json:"area_ha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.CenterLat != nil {
		updates["center_lat"] = *input.CenterLat
	}
	if input.CenterLng != nil {
		updates["center_lng"] = *input.CenterLng
	}
	if input.RadiusM != nil {
		if *input.RadiusM <= 0 {
			http.Error(w, "Boundary radius must be positive", http.StatusBadRequest)
			return
		}
		updates["radius_m"] = *input.RadiusM
	}
	if input.AreaHa != nil {
		updates["area_ha"] = *input.AreaHa
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&farm).Updates(updates).Error; err != nil {
			http.Error(w, "Failed to update farm", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(farm)
}

// FarmBoundaryHandler returns the display polygon approximating the farm's
// circular boundary. Rendering only; containment decisions never use it.
func FarmBoundaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	farmID := chi.URLParam(r, "id")
	var farm Farm
	if err := db.DB.First(&farm, "id = ? AND owner_id = ?", farmID, userID).Error; err != nil {
		http.Error(w, "Farm not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(geofence.BoundaryPolygon(farm.CenterLat, farm.CenterLng, farm.RadiusM, 64))
}

func CreateAnimalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var input struct {
		FarmID  string   `json:"farm_id"`
		Name    string   `json:"name"`
		TagID   string   `json:"tag_id"`
		Species string   `json:"species"`
		Lat     *float64 `json:"lat"`
		Lng     *float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.FarmID == "" || input.Name == "" || input.TagID == "" {
		http.Error(w, "farm_id, name and tag_id are required", http.StatusBadRequest)
		return
	}

	// The farm must exist and belong to the caller.
	var farm Farm
	if err := db.DB.First(&farm, "id = ? AND owner_id = ?", input.FarmID, userID).Error; err != nil {
		http.Error(w, "Farm not found", http.StatusNotFound)
		return
	}

	animal := Animal{
		ID:         utils.GenerateUUID(),
		FarmID:     farm.ID,
		Name:       input.Name,
		TagID:      input.TagID,
		Species:    input.Species,
		Lat:        input.Lat,
		Lng:        input.Lng,
		BatteryPct: 100,
		LastSeenAt: time.Now(),
		Status:     StatusSafe,
		CreatedAt:  time.Now(),
	}
	if err := db.DB.Create(&animal).Error; err != nil {
		http.Error(w, "Failed to create animal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(animal)
}

func ListAnimalsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	q := db.DB.
		Joins("JOIN herdguard.farms ON herdguard.farms.id = herdguard.animals.farm_id").
		Where("herdguard.farms.owner_id = ?", userID)
	if farmID := r.URL.Query().Get("farm_id"); farmID != "" {
		q = q.Where("herdguard.animals.farm_id = ?", farmID)
	}

	var animals []Animal
	if err := q.Find(&animals).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(animals)
}

func DeleteAnimalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	animalID := chi.URLParam(r, "id")
	var animal Animal
	err := db.DB.
		Joins("JOIN herdguard.farms ON herdguard.farms.id = herdguard.animals.farm_id").
		Where("herdguard.animals.id = ? AND herdguard.farms.owner_id = ?", animalID, userID).
		First(&animal).Error
	if err != nil {
		http.Error(w, "Animal not found", http.StatusNotFound)
		return
	}

	// Cascade: the animal's alert history goes with it.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM herdguard.alert_events WHERE animal_id = ?", animal.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&animal).Error
	})
	if err != nil {
		http.Error(w, "Failed to delete animal", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
