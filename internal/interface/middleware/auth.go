package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

// CtxUserIDKey is where the verified user id lives in the Gin context.
// Handlers must take identity from here and nowhere else.
const CtxUserIDKey = "userID"

const bearerPrefix = "Bearer "

// Auth extracts and verifies the bearer token from the Authorization header
// and injects the embedded user id into the context. Missing, malformed,
// forged, and expired tokens all produce the same 401 body so the failure
// mode is not observable from outside.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			response.AbortError(c, http.StatusUnauthorized, "invalid or missing token", nil)
			return
		}
		claims, err := jwt.Parse(strings.TrimPrefix(header, bearerPrefix))
		if err != nil || claims.UserID == "" {
			response.AbortError(c, http.StatusUnauthorized, "invalid or missing token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
