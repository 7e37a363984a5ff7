package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"siniestros-api/internal/config"

	"go.uber.org/zap"
)

const (
	maxAttempts  = 10
	retryDelay   = 2 * time.Second
	connectLimit = 10 * time.Second
)

// Backend agrupa los repositorios del motor elegido por DATABASE_URL.
type Backend struct {
	Kind      string
	Users     UserRepository
	Incidents IncidentRepository
	close     func(context.Context) error
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open conecta con reintentos al motor indicado por el esquema de DATABASE_URL.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	kind := backendKind(cfg.DatabaseURL)
	if kind == "memory" {
		mem, err := NewMemoryStore()
		if err != nil {
			return nil, err
		}
		log.Warn("using in-memory database, data is lost on restart")
		return &Backend{Kind: kind, Users: mem.Users(), Incidents: mem.Incidents()}, nil
	}

	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		log.Info("trying to connect to DB", zap.String("backend", kind), zap.Int("attempt", i), zap.Int("max", maxAttempts))

		b, err := connect(ctx, kind, cfg)
		if err == nil {
			log.Info("connected to DB successfully", zap.String("backend", kind))
			return b, nil
		}
		lastErr = err
		log.Warn("failed to connect to DB", zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to db after %d attempts: %w", maxAttempts, lastErr)
}

func connect(ctx context.Context, kind string, cfg *config.Config) (*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, connectLimit)
	defer cancel()

	switch kind {
	case "mongodb":
		s, err := OpenMongo(ctx, cfg.DatabaseURL, cfg.DBName)
		if err != nil {
			return nil, err
		}
		return &Backend{Kind: kind, Users: s.Users(), Incidents: s.Incidents(), close: s.Close}, nil
	case "postgres":
		s, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Backend{Kind: kind, Users: s.Users(), Incidents: s.Incidents(), close: s.Close}, nil
	}
	return nil, fmt.Errorf("unsupported database url scheme for backend %q", kind)
}

func backendKind(url string) string {
	url = strings.ToLower(url)
	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return "mongodb"
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(url, "memory://"):
		return "memory"
	}
	return "unknown"
}
