package middleware

import (
	"errors"

	"siniestros-api/internal/apperr"
	"siniestros-api/internal/auth"
	"siniestros-api/internal/models"

	"github.com/gin-gonic/gin"
)

func RequireAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ParseBearer(c.GetHeader("Authorization"))
		id, err := issuer.Verify(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrMissingToken) {
				msg = "No token"
			}
			_ = c.Error(apperr.Authentication(msg, err))
			c.Abort()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		if err := auth.Authorize(id.Role, roles...); err != nil {
			msg := "No autorizado: rol insuficiente"
			if errors.Is(err, auth.ErrNoRole) {
				msg = "No autorizado: sin rol"
			}
			_ = c.Error(apperr.Authorization(msg, err))
			c.Abort()
			return
		}
		c.Next()
	}
}
