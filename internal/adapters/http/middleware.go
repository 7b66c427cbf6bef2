package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mxm-1x/formiqa/internal/domain"
)

const ctxUserID = "user_id"

// ClientTokenMiddleware tags every client with a long-lived opaque cookie.
// Anonymous viewers carry it across reconnects; it also keys rate limiting.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// AuthRequired validates a Bearer token and stashes the presenter id.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ctxUserID, sub)
		c.Next()
	}
}

// currentUser reads the presenter id set by AuthRequired.
func currentUser(c *gin.Context) (domain.UserID, bool) {
	id := c.GetString(ctxUserID)
	return domain.UserID(id), id != ""
}

// clientKey identifies the caller for rate limiting: the client-token
// cookie when present, the remote address otherwise.
func clientKey(c *gin.Context) string {
	if ct := c.GetString("client_token"); ct != "" {
		return ct
	}
	return c.ClientIP()
}
