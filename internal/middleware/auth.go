package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtsvc "campusportal/internal/pkg/jwt"
	"campusportal/internal/pkg/response"
)

// Auth validates the Bearer token and puts user_id and role on the context.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwt.ValidateBearer(c.GetHeader("Authorization"))
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, jwtsvc.ErrNoToken) {
				msg = "Authorization token required"
			}
			response.Error(c, http.StatusUnauthorized, msg)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", string(claims.Role))

		c.Next()
	}
}
