package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxGoogleToken = "google_access_token"
)

// UserFirebaseUID extracts the principal's uid from the Gin context.
// This is set by the Principal middleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// GoogleToken extracts the principal's Google access token from the Gin
// context. Empty when the request carried none.
func GoogleToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxGoogleToken))
}
