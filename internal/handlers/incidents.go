package handlers

import (
	"context"
	"net/http"

	"siniestros-api/internal/apperr"
	"siniestros-api/internal/auth"
	"siniestros-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) CreateIncident() gin.HandlerFunc {
	return create(a.deps.Validator, http.StatusCreated, a.createIncident)
}

func (a *API) createIncident(ctx context.Context, id auth.Identity, draft *models.IncidentDraft) (*models.Incident, error) {
	inc, err := a.deps.Incidents.Create(ctx, *draft)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	a.deps.Log.Info("incident created", zap.String("id", inc.ID), zap.String("form_id", inc.FormID), zap.String("by", id.RUT))
	return inc, nil
}

func (a *API) ListIncidents() gin.HandlerFunc {
	return list(func(ctx context.Context, _ auth.Identity) ([]models.Incident, error) {
		incs, err := a.deps.Incidents.List(ctx)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		return incs, nil
	})
}
