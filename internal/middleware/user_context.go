package middleware

import (
	"siniestros-api/internal/auth"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityFrom devuelve la identidad que dejó RequireAuth en el contexto.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
