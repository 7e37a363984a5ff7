package auth

import (
	"errors"

	"siniestros-api/internal/models"
)

var (
	ErrNoRole           = errors.New("no autorizado: sin rol")
	ErrInsufficientRole = errors.New("no autorizado: rol insuficiente")
)

// Authorize decide si role está en allowed. El conjunto lo define cada ruta.
func Authorize(role models.Role, allowed ...models.Role) error {
	if role == "" {
		return ErrNoRole
	}
	for _, r := range allowed {
		if r == role {
			return nil
		}
	}
	return ErrInsufficientRole
}
