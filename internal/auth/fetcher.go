package auth

import (
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/utils"
)

// SessionInfo satisfies middleware.SessionFetcher against the sessions table.
type SessionInfo struct{}

func (SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session
	if err := db.DB.First(&session, "session_id = ?", id).Error; err != nil {
		return utils.SessionData{}, err
	}
	return utils.SessionData{
		UserID:    session.FarmerID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
