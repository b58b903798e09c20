package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var farmer Farmer

	err := json.NewDecoder(r.Body).Decode(&farmer)
	if err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	if farmer.Username == "" || farmer.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	var existing Farmer
	err = db.DB.First(&existing, "username = ?", farmer.Username).Error
	if err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(farmer.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}
	farmer.HashedPassword = string(hashed)
	farmer.FarmerID = utils.GenerateUUID()
	farmer.Password = ""

	if err := db.DB.Create(&farmer).Error; err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"farmer_id": farmer.FarmerID,
		"username":  farmer.Username,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	var farmer Farmer
	if err := db.DB.First(&farmer, "username = ?", input.Username).Error; err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(farmer.HashedPassword), []byte(input.Password)); err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	sessionID := utils.GenerateUUID()
	http.SetCookie(w, sessionCookie(sessionID))

	// One live session per farmer; logging in again rotates the session ID.
	var existing Session
	db.DB.Where("farmer_id = ?", farmer.FarmerID).First(&existing)
	if existing.FarmerID != "" {
		db.DB.Model(&existing).Updates(Session{
			SessionID: sessionID,
			ExpiresAt: time.Now().Add(6 * time.Hour),
		})
	} else {
		session := Session{
			SessionID: sessionID,
			FarmerID:  farmer.FarmerID,
			ExpiresAt: time.Now().Add(6 * time.Hour),
		}
		db.DB.Create(&session)
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Login successful")
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	var session Session
	if err := db.DB.First(&session, "session_id = ?", cookie.Value).Error; err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}

	db.DB.Delete(&session)

	expired := sessionCookie("")
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

type MeResponse struct {
	FarmerID string `json:"farmer_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var farmer Farmer
	if err := db.DB.First(&farmer, "farmer_id = ?", userID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MeResponse{
		FarmerID: farmer.FarmerID,
		Username: farmer.Username,
		Role:     farmer.Role,
	})
}

// sessionCookie builds the session cookie. Secure mode is keyed off PORT being
// set, which is only true on hosted deployments; local dev runs plain HTTP.
func sessionCookie(value string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
	if portSet() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
