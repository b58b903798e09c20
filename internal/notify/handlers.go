package notify

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/utils"
	"gorm.io/gorm/clause"
)

func BannersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Banners.Active(userID))
}

func PermissionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var input struct {
		Granted  bool   `json:"granted"`
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Granted && input.Endpoint == "" {
		http.Error(w, "endpoint is required when granting push permission", http.StatusBadRequest)
		return
	}

	perm := PushPermission{
		FarmerID:  userID,
		Granted:   input.Granted,
		Endpoint:  input.Endpoint,
		UpdatedAt: time.Now(),
	}
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "farmer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"granted", "endpoint", "updated_at"}),
	}).Create(&perm).Error
	if err != nil {
		http.Error(w, "Failed to store push permission", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(perm)
}
