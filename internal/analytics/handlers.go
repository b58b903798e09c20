package analytics

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/utils"
)

var classifier ProvinceClassifier

func Init() {
	c, err := NewBoxClassifier()
	if err != nil {
		log.Fatal("Failed to load province classifier: ", err)
	}
	classifier = c
}

func AlertAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	scope := userID
	if r.URL.Query().Get("scope") == "global" {
		if !isAdmin(userID) {
			http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
			return
		}
		scope = ""
	}

	agg := NewAggregator(db.DB, classifier)
	summary, err := agg.Summary(r.Context(), scope)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func RegionalRiskHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	agg := NewAggregator(db.DB, classifier)
	risks, err := agg.RegionalRisk(r.Context())
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(risks)
}

func FarmAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	agg := NewAggregator(db.DB, classifier)
	reports, err := agg.FarmReports(r.Context(), userID)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}

func isAdmin(userID string) bool {
	var farmer struct{ Role string }
	err := db.DB.Table("herdguard_auth.farmers").
		Select("role").Where("farmer_id = ?", userID).Scan(&farmer).Error
	return err == nil && farmer.Role == "admin"
}
