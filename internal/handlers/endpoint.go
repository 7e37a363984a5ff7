package handlers

import (
	"context"
	"errors"
	"net/http"

	"siniestros-api/internal/apperr"
	"siniestros-api/internal/auth"
	"siniestros-api/internal/database"
	"siniestros-api/internal/middleware"
	"siniestros-api/internal/validation"

	"github.com/gin-gonic/gin"
)

// create decodifica y valida el cuerpo completo antes de ejecutar fn, que recibe
// la identidad ya autenticada y autorizada por los middlewares de la ruta.
func create[In, Out any](val *validation.Validator, status int, fn func(context.Context, auth.Identity, *In) (Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			_ = c.Error(apperr.Validation("No se pudo leer el cuerpo", apperr.FieldError{Field: "body", Message: err.Error()}))
			return
		}
		var in In
		if err := val.DecodeCreate(raw, &in); err != nil {
			_ = c.Error(err)
			return
		}
		id, _ := middleware.IdentityFrom(c)
		out, err := fn(c.Request.Context(), id, &in)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(status, out)
	}
}

func list[Out any](fn func(context.Context, auth.Identity) (Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := middleware.IdentityFrom(c)
		out, err := fn(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// storeError traduce los errores del almacenamiento a errores de API.
func storeError(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, database.ErrAlreadyExists):
		return apperr.Conflict(conflict, err)
	default:
		return apperr.Internal(err)
	}
}
