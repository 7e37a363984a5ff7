package config

import (
	"strings"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL": "mongodb://localhost:27017",
		"JWT_SECRET":   "supersecret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppEnv != EnvDevelopment || cfg.Port != 4000 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DBName != "ecotrack" || cfg.BcryptCost != 10 || cfg.LoginRateLimit != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.IsProduction() {
		t.Fatal("development must not be production")
	}
}

func TestFromLookupRejectsShortSecret(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL": "mongodb://localhost:27017",
		"JWT_SECRET":   "short",
	}))
	if err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("error must name JWT_SECRET: %v", err)
	}
	if strings.Contains(err.Error(), "short") {
		t.Fatalf("secret value leaked in error: %v", err)
	}
}

func TestFromLookupReportsEveryInvalidField(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"APP_ENV":   "staging",
		"LOG_LEVEL": "verbose",
	}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, name := range []string{"APP_ENV", "DATABASE_URL", "JWT_SECRET", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("expected %s in %v", name, err)
		}
	}
}

func TestFromLookupRejectsNonNumericPort(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL": "memory://",
		"JWT_SECRET":   "supersecret",
		"PORT":         "abc",
	}))
	if err == nil || !strings.Contains(err.Error(), "PORT") {
		t.Fatalf("expected PORT error, got %v", err)
	}
}

func TestFromLookupRejectsUnknownDatabaseScheme(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL": "mysql://localhost",
		"JWT_SECRET":   "supersecret",
	}))
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestFromLookupAdminPair(t *testing.T) {
	base := map[string]string{
		"DATABASE_URL": "memory://",
		"JWT_SECRET":   "supersecret",
		"ADMIN_RUT":    "11111111-1",
	}
	if _, err := FromLookup(lookupFrom(base)); err == nil {
		t.Fatal("ADMIN_RUT without ADMIN_PASSWORD must fail")
	}
	base["ADMIN_PASSWORD"] = "123"
	if _, err := FromLookup(lookupFrom(base)); err == nil {
		t.Fatal("short ADMIN_PASSWORD must fail")
	}
	base["ADMIN_PASSWORD"] = "admin123"
	cfg, err := FromLookup(lookupFrom(base))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AdminRUT != "11111111-1" {
		t.Fatalf("unexpected admin rut: %q", cfg.AdminRUT)
	}
}
