package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"siniestros-api/internal/apperr"
	"siniestros-api/internal/auth"
	"siniestros-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login es público; el intento se cuenta por RUT e IP antes de mirar la contraseña.
func (a *API) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			_ = c.Error(apperr.Validation("No se pudo leer el cuerpo", apperr.FieldError{Field: "body", Message: err.Error()}))
			return
		}
		var req models.LoginRequest
		if err := a.deps.Validator.DecodeCreate(raw, &req); err != nil {
			var ve *apperr.Error
			if errors.As(err, &ve) && ve.Kind == apperr.KindValidation {
				ve.Message = "Rut y password son requeridos"
			}
			_ = c.Error(err)
			return
		}

		d := a.deps.Limiter.Allow(c.Request.Context(), req.RUT+"|"+c.ClientIP(), a.deps.LoginLimit)
		if !d.Allowed {
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			a.deps.Log.Warn("login throttled", zap.String("rut", req.RUT), zap.String("client_ip", c.ClientIP()))
			_ = c.Error(apperr.TooManyRequests("Demasiados intentos, intente más tarde"))
			return
		}

		resp, err := a.login(c.Request.Context(), &req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (a *API) login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := a.deps.Users.FindByRUT(ctx, req.RUT)
	if err != nil {
		return nil, storeError(err, "Usuario no encontrado", "")
	}
	if !a.deps.Passwords.Verify(req.Password, user.PasswordHash) {
		return nil, apperr.Authentication("Contraseña incorrecta", nil)
	}
	token, err := a.deps.Issuer.Issue(auth.Identity{UserID: user.ID, RUT: user.RUT, Role: user.Role()})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}
