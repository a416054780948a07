package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/services"
)

const (
	UserIDKey  = "user_id"
	IsStaffKey = "is_staff"
)

// Authenticate reads an optional bearer token. Requests without a token pass
// through anonymously; requests with a bad token are rejected.
func Authenticate(tokens *services.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header must be: Bearer <token>"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(IsStaffKey, claims.IsStaff)
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Viewer(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		v := Viewer(c)
		if !v.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		if !v.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}

func Viewer(c *gin.Context) services.Viewer {
	return services.Viewer{
		UserID:  c.GetInt(UserIDKey),
		IsStaff: c.GetBool(IsStaffKey),
	}
}
