package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"siniestros-api/internal/models"
)

func TestHasherIsSaltedAndVerifies(t *testing.T) {
	h := NewHasher(4)
	first, err := h.Hash("secreto123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("secreto123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same input must differ")
	}
	if !h.Verify("secreto123", first) || !h.Verify("secreto123", second) {
		t.Fatal("verify must accept every hash of the plaintext")
	}
	if h.Verify("otro", first) {
		t.Fatal("verify must reject a different plaintext")
	}
	if strings.Contains(first, "secreto123") {
		t.Fatal("plaintext leaked into hash")
	}
}

func TestNewHasherFallsBackToDefaultCost(t *testing.T) {
	if NewHasher(0).cost != DefaultCost || NewHasher(99).cost != DefaultCost {
		t.Fatal("out of range costs must fall back to the default")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("supersecret")
	ids := []Identity{
		{UserID: "u1", RUT: "12345678-9", Role: models.RoleAdmin},
		{UserID: "u2", RUT: "1234567-K", Role: models.RoleOperador},
		{UserID: "u3", RUT: "7654321-0"},
	}
	for _, id := range ids {
		tok, err := issuer.Issue(id)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		got, err := issuer.Verify(tok)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if got != id {
			t.Fatalf("expected %+v, got %+v", id, got)
		}
	}
}

func TestTokenExpiresAfterOneHour(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("supersecret").WithClock(func() time.Time { return start })
	tok, err := issuer.Issue(Identity{UserID: "u1", RUT: "12345678-9", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	inside := issuer.WithClock(func() time.Time { return start.Add(59 * time.Minute) })
	if _, err := inside.Verify(tok); err != nil {
		t.Fatalf("token must be valid inside the window: %v", err)
	}

	after := issuer.WithClock(func() time.Time { return start.Add(TokenTTL + time.Second) })
	if _, err := after.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerifyDistinguishesFailures(t *testing.T) {
	issuer := NewTokenIssuer("supersecret")

	if _, err := issuer.Verify(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := issuer.Verify("not-a-jwt"); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}

	other, err := NewTokenIssuer("othersecret").Issue(Identity{UserID: "u1", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(other); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestParseBearer(t *testing.T) {
	cases := map[string]string{
		"Bearer abc.def.ghi":   "abc.def.ghi",
		"bearer abc.def.ghi":   "abc.def.ghi",
		"BEARER   abc.def.ghi": "abc.def.ghi",
		"abc.def.ghi":          "abc.def.ghi",
		"Bearer ":              "",
		"":                     "",
	}
	for in, want := range cases {
		if got := ParseBearer(in); got != want {
			t.Fatalf("ParseBearer(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAuthorize(t *testing.T) {
	allowed := []models.Role{models.RoleOperador, models.RoleAdmin}

	if err := Authorize(models.RoleAdmin, allowed...); err != nil {
		t.Fatalf("admin must be permitted: %v", err)
	}
	if err := Authorize("", allowed...); !errors.Is(err, ErrNoRole) {
		t.Fatalf("expected ErrNoRole, got %v", err)
	}
	if err := Authorize(models.RoleSupervisor, allowed...); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
	if err := Authorize(models.RoleAdmin); !errors.Is(err, ErrInsufficientRole) {
		t.Fatal("an empty allowed set permits nobody")
	}
}
