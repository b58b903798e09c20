package positions

import (
	"encoding/json"
	"net/http"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/utils"
)

func StartHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	session := DefaultManager.Start(userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

func StopHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	if !DefaultManager.Stop(userID) {
		http.Error(w, "No monitoring session running", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func StatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	session, running := DefaultManager.Status(userID)
	response := map[string]interface{}{"running": running}
	if running {
		response["session"] = session
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
