package handlers

import (
	"context"
	"net/http"

	"siniestros-api/internal/apperr"
	"siniestros-api/internal/auth"
	"siniestros-api/internal/middleware"
	"siniestros-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) CreateUser() gin.HandlerFunc {
	return create(a.deps.Validator, http.StatusCreated, a.createUser)
}

func (a *API) createUser(ctx context.Context, id auth.Identity, draft *models.UserDraft) (*models.User, error) {
	user, err := a.deps.Users.Create(ctx, *draft)
	if err != nil {
		return nil, storeError(err, "Usuario no encontrado", "Usuario ya existe")
	}
	a.deps.Log.Info("user created", zap.String("rut", user.RUT), zap.String("by", id.RUT))
	return user, nil
}

func (a *API) ListUsers() gin.HandlerFunc {
	return list(func(ctx context.Context, _ auth.Identity) ([]models.User, error) {
		users, err := a.deps.Users.List(ctx)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if users == nil {
			users = []models.User{}
		}
		return users, nil
	})
}

// UpdateUser aplica una edición parcial sobre el usuario de la ruta.
// El RUT identifica al usuario y no se puede cambiar.
func (a *API) UpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		rut := c.Param("rut")
		raw, err := c.GetRawData()
		if err != nil {
			_ = c.Error(apperr.Validation("No se pudo leer el cuerpo", apperr.FieldError{Field: "body", Message: err.Error()}))
			return
		}
		var draft models.UserDraft
		present, err := a.deps.Validator.DecodePartial(raw, &draft)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if present.Has("rut") && draft.RUT != rut {
			_ = c.Error(apperr.Validation("Datos inválidos: rut no se puede modificar",
				apperr.FieldError{Field: "rut", Message: "no se puede modificar"}))
			return
		}

		// un null explícito no borra el campo; se rechaza
		var nulls []apperr.FieldError
		for _, k := range []string{"nombres", "apellidos", "password", "cargo", "region"} {
			if present.IsNull(k) {
				nulls = append(nulls, apperr.FieldError{Field: k, Message: "no puede ser null"})
			}
		}
		if len(nulls) > 0 {
			_ = c.Error(apperr.Validation("Datos inválidos: campos en null", nulls...))
			return
		}

		var upd models.UserUpdate
		if present.Has("nombres") {
			upd.Nombres = &draft.Nombres
		}
		if present.Has("apellidos") {
			upd.Apellidos = &draft.Apellidos
		}
		if present.Has("password") {
			upd.Password = &draft.Password
		}
		if present.Has("cargo") {
			upd.Cargo = draft.Cargo
		}
		if present.Has("region") {
			upd.Region = draft.Region
		}

		user, err := a.deps.Users.Update(c.Request.Context(), rut, upd)
		if err != nil {
			_ = c.Error(storeError(err, "Usuario no encontrado", "Usuario ya existe"))
			return
		}
		id, _ := middleware.IdentityFrom(c)
		a.deps.Log.Info("user updated", zap.String("rut", rut), zap.String("by", id.RUT))
		c.JSON(http.StatusOK, user)
	}
}
