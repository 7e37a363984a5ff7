package database

import (
	"context"
	"errors"

	"siniestros-api/internal/models"

	"go.uber.org/zap"
)

// EnsureAdmin crea el administrador inicial desde la configuración; sin él nadie
// podría registrar al primer usuario. Si el RUT ya existe no hace nada.
func EnsureAdmin(ctx context.Context, creds *Credentials, rut, password string, log *zap.Logger) error {
	if rut == "" || password == "" {
		return nil
	}

	_, err := creds.FindByRUT(ctx, rut)
	if err == nil {
		// ya existe
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	role := models.RoleAdmin
	_, err = creds.Create(ctx, models.UserDraft{
		Nombres:   "Administrador",
		Apellidos: "Sistema",
		RUT:       rut,
		Password:  password,
		Cargo:     &role,
	})
	if errors.Is(err, ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("created default admin user", zap.String("rut", rut))
	return nil
}
