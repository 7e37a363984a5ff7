package handlers

import (
	"siniestros-api/internal/auth"
	"siniestros-api/internal/database"
	"siniestros-api/internal/ratelimit"
	"siniestros-api/internal/validation"

	"go.uber.org/zap"
)

type PasswordVerifier interface {
	Verify(plain, hashed string) bool
}

// Deps reúne lo que construye main; nada se toma de variables globales.
type Deps struct {
	Users      *database.Credentials
	Incidents  *database.Incidents
	Issuer     *auth.TokenIssuer
	Passwords  PasswordVerifier
	Validator  *validation.Validator
	Limiter    ratelimit.Limiter
	LoginLimit int
	Log        *zap.Logger
}

type API struct {
	deps Deps
}

func New(deps Deps) *API {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.LoginLimit <= 0 {
		deps.LoginLimit = 10
	}
	return &API{deps: deps}
}
