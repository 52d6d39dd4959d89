package middleware

import (
	"net/http"
	"strings"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenValidator resolves a bearer token to a profile id. *auth.Verifier satisfies it.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AuthMiddleware validates the token and loads the caller's profile, creating
// it on first access.
func AuthMiddleware(tokens TokenValidator, profiles domain.ProfileUsecase, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		profileID, err := tokens.Validate(tokenString)
		if err != nil {
			log.Debug("token validation failed", zap.Error(err))
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		profile, err := profiles.EnsureProfile(c.Request.Context(), profileID)
		if err != nil {
			log.Error("failed to load profile", zap.String("profile_id", profileID), zap.Error(err))
			response.Error(c, http.StatusUnauthorized, "Profile unavailable", nil)
			c.Abort()
			return
		}

		c.Set(domain.KeyProfileID, profile.ID)

		c.Next()
	}
}
