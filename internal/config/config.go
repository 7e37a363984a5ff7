package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"siniestros-api/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config se construye una sola vez en main y se inyecta en cada componente.
type Config struct {
	AppEnv         string `env:"APP_ENV" validate:"oneof=development production test"`
	Port           int    `env:"PORT" validate:"min=1,max=65535"`
	DatabaseURL    string `env:"DATABASE_URL" validate:"required,dburl"`
	DBName         string `env:"DB_NAME" validate:"required"`
	JWTSecret      string `env:"JWT_SECRET" validate:"required,min=8"`
	LogLevel       string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	BcryptCost     int    `env:"BCRYPT_COST" validate:"min=4,max=31"`
	RedisURL       string `env:"REDIS_URL"`
	LoginRateLimit int    `env:"LOGIN_RATE_LIMIT" validate:"min=1"`
	AdminRUT       string `env:"ADMIN_RUT" validate:"required_with=AdminPassword"`
	AdminPassword  string `env:"ADMIN_PASSWORD" validate:"required_with=AdminRUT"`
}

// IsProduction indica si se deben ocultar detalles internos en las respuestas.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Load lee .env (si existe) y el entorno, aplica valores por defecto y valida.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup arma la configuración desde una función de búsqueda de variables.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var errs []error
	atoi := func(key, def string) int {
		raw := get(key, def)
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q no es un número", key, raw))
		}
		return n
	}

	cfg := &Config{
		AppEnv:         get("APP_ENV", EnvDevelopment),
		Port:           atoi("PORT", "4000"),
		DatabaseURL:    get("DATABASE_URL", ""),
		DBName:         get("DB_NAME", "ecotrack"),
		JWTSecret:      get("JWT_SECRET", ""),
		LogLevel:       strings.ToLower(get("LOG_LEVEL", "info")),
		BcryptCost:     atoi("BCRYPT_COST", "10"),
		RedisURL:       get("REDIS_URL", ""),
		LoginRateLimit: atoi("LOGIN_RATE_LIMIT", "10"),
		AdminRUT:       get("ADMIN_RUT", ""),
		AdminPassword:  get("ADMIN_PASSWORD", ""),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.AdminRUT != "" && !validation.ValidRUT(cfg.AdminRUT) {
		return nil, errors.New("ADMIN_RUT: formato de RUT inválido")
	}
	if cfg.AdminPassword != "" && len(cfg.AdminPassword) < 6 {
		return nil, errors.New("ADMIN_PASSWORD: debe tener al menos 6 caracteres")
	}
	return cfg, nil
}

var dbSchemes = []string{"mongodb://", "mongodb+srv://", "postgres://", "postgresql://", "memory://"}

func validateConfig(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("dburl", func(fl validator.FieldLevel) bool {
		url := strings.ToLower(fl.Field().String())
		for _, s := range dbSchemes {
			if strings.HasPrefix(url, s) {
				return true
			}
		}
		return false
	})
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	joined := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		joined = append(joined, fmt.Errorf("%s: falla la regla %q (valor %q)", envName(fe.StructField()), ruleOf(fe), redact(fe)))
	}
	return errors.Join(joined...)
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

func redact(fe validator.FieldError) string {
	switch fe.StructField() {
	case "JWTSecret", "AdminPassword", "DatabaseURL":
		return "***"
	}
	return fmt.Sprint(fe.Value())
}

func envName(field string) string {
	if f, ok := reflect.TypeOf(Config{}).FieldByName(field); ok {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
	}
	return field
}
