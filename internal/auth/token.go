package auth

import (
	"errors"
	"strings"
	"time"

	"siniestros-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL es la vigencia fija de un token emitido en el login.
const TokenTTL = time.Hour

var (
	ErrMissingToken   = errors.New("no token")
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidToken cubre firma inválida y token vencido.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity es lo que un token válido asegura sobre quien hace la petición.
type Identity struct {
	UserID string
	RUT    string
	Role   models.Role
}

type claims struct {
	ID    string `json:"id"`
	RUT   string `json:"rut"`
	Cargo string `json:"cargo,omitempty"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// WithClock reemplaza el reloj; se usa en pruebas de vencimiento.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *t
	cp.now = now
	return &cp
}

func (t *TokenIssuer) Issue(id Identity) (string, error) {
	now := t.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID:    id.UserID,
		RUT:   id.RUT,
		Cargo: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	return tok.SignedString(t.secret)
}

func (t *TokenIssuer) Verify(token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrMissingToken
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Identity{}, ErrMalformedToken
	default:
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}
	return Identity{UserID: c.ID, RUT: c.RUT, Role: models.Role(c.Cargo)}, nil
}

// ParseBearer quita el prefijo "Bearer " (sin distinguir mayúsculas) si está presente.
func ParseBearer(header string) string {
	header = strings.TrimSpace(header)
	const prefix = "bearer"
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return header
	}
	rest := header[len(prefix):]
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
		return strings.TrimSpace(rest)
	}
	return header
}
