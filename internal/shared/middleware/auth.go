package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/response"
)

// SessionAuthenticator resolves a bearer token to (userID, sessionID)
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (string, string, error)
}

// AuthMiddleware - Middleware xác thực session token
func AuthMiddleware(auth SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "NO_CURRENT_USER", "missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "NO_CURRENT_USER", "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify token và đọc session
		userID, sessionID, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(shared.ContextRequestID)).Msg("authentication failed")
			response.ErrorResponse(c, http.StatusUnauthorized, "NO_CURRENT_USER", "invalid or expired session")
			c.Abort()
			return
		}

		// 4. Set userId vào context
		c.Set(shared.ContextUserID, userID)
		c.Set(shared.ContextSessionID, sessionID)

		c.Next()
	}
}
