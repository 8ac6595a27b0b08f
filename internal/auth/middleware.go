package auth

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// Principal resolves the request identity and stashes it in the context along
// with the caller's Google access token.
//
// With a Firebase client the Authorization bearer token is verified as a
// Firebase ID token and its uid becomes the principal. Without one (local
// development) the uid comes from X-User-Id, falling back to "demo-user".
// The Google access token travels separately in X-Google-Access-Token; its
// absence is not rejected here because read-only endpoints like health checks
// share the router.
func Principal(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authClient != nil {
			token := extractBearer(c)
			if token == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization token"})
				c.Abort()
				return
			}
			decoded, err := authClient.VerifyIDToken(context.Background(), token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
				c.Abort()
				return
			}
			c.Set(CtxFirebaseUID, decoded.UID)
			if email, ok := decoded.Claims["email"].(string); ok {
				c.Set("email", email)
			}
		} else {
			uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
			if uid == "" {
				uid = "demo-user"
			}
			c.Set(CtxFirebaseUID, uid)
		}

		c.Set(CtxGoogleToken, strings.TrimSpace(c.GetHeader("X-Google-Access-Token")))
		c.Next()
	}
}

// extractBearer extracts the Bearer token from the Authorization header
func extractBearer(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
