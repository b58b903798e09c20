package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

func GenerateUUID() string {
	return uuid.NewString()
}

// SessionData is the slice of a session the middleware needs to authorize
// a request, decoupled from the auth package's gorm model.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}
