package server

import (
	"siniestros-api/internal/auth"
	"siniestros-api/internal/config"
	"siniestros-api/internal/database"
	"siniestros-api/internal/handlers"
	"siniestros-api/internal/middleware"
	"siniestros-api/internal/models"
	"siniestros-api/internal/ratelimit"
	"siniestros-api/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewDeps arma los servicios de la API a partir de la configuración y el backend abierto.
func NewDeps(cfg *config.Config, log *zap.Logger, backend *database.Backend, limiter ratelimit.Limiter) handlers.Deps {
	hasher := auth.NewHasher(cfg.BcryptCost)
	return handlers.Deps{
		Users:      database.NewCredentials(backend.Users, hasher),
		Incidents:  database.NewIncidents(backend.Incidents),
		Issuer:     auth.NewTokenIssuer(cfg.JWTSecret),
		Passwords:  hasher,
		Validator:  validation.New(),
		Limiter:    limiter,
		LoginLimit: cfg.LoginRateLimit,
		Log:        log,
	}
}

func NewRouter(cfg *config.Config, log *zap.Logger, backendKind string, deps handlers.Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(log),
		middleware.ErrorHandler(log, cfg.IsProduction()),
		middleware.Recovery(),
	)

	api := handlers.New(deps)
	requireAuth := middleware.RequireAuth(deps.Issuer)

	// USUARIOS
	users := r.Group("/api/users")
	users.POST("/login", api.Login())

	managers := middleware.RequireRole(models.RoleAdmin, models.RoleJefeArea)
	users.POST("", requireAuth, managers, api.CreateUser())
	users.GET("", requireAuth, managers, api.ListUsers())
	users.PATCH("/:rut", requireAuth, managers, api.UpdateUser())

	// DECLARACIONES
	incidents := r.Group("/api/incidents", requireAuth)
	incidents.POST("",
		middleware.RequireRole(models.RoleOperador, models.RoleAdmin),
		api.CreateIncident(),
	)
	incidents.GET("",
		middleware.RequireRole(models.RoleSupervisor, models.RoleJefeArea, models.RoleAdmin),
		api.ListIncidents(),
	)

	// HEALTHCHECK
	r.GET("/health", handlers.Health(backendKind))

	return r
}
