package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestTriBoolJSON(t *testing.T) {
	var a Antecedentes
	if err := json.Unmarshal([]byte(`{"lesionados":true,"danos_materiales":false,"concurrio_carabineros":null}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Lesionados != TriTrue || a.DanosMateriales != TriFalse {
		t.Fatalf("unexpected values: %+v", a)
	}
	if a.ConcurrioCarabineros != TriUnknown || a.SeTomoAlcoholemia != TriUnknown {
		t.Fatalf("null and absent must both decode as unknown: %+v", a)
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	for _, want := range []string{`"lesionados":true`, `"danos_materiales":false`, `"se_tomo_alcoholemia":null`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
}

func TestTriBoolRejectsNonBoolean(t *testing.T) {
	var a Antecedentes
	err := json.Unmarshal([]byte(`{"lesionados":"si"}`), &a)
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected UnmarshalTypeError, got %v", err)
	}
	if typeErr.Field != "lesionados" || typeErr.Value != "string" {
		t.Fatalf("unexpected error context: field=%q value=%q", typeErr.Field, typeErr.Value)
	}
}

func TestTriBoolBSON(t *testing.T) {
	in := Declaracion{EntendidoProcedimiento: TriTrue, LugarFirma: "Santiago"}
	raw, err := bson.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	doc := bson.Raw(raw)
	if doc.Lookup("acepta_declaracion_jurada").Type != bson.TypeNull {
		t.Fatal("unknown must be stored as BSON null")
	}
	var out Declaracion
	if err := bson.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Fatalf("%s must be valid", r)
		}
	}
	if Role("GERENTE").Valid() || Role("").Valid() {
		t.Fatal("unknown roles must be invalid")
	}
}

func TestUserHidesPasswordHash(t *testing.T) {
	out, err := json.Marshal(User{RUT: "12345678-9", PasswordHash: "$2a$10$secret"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "secret") || strings.Contains(string(out), "password") {
		t.Fatalf("hash leaked: %s", out)
	}
	if (&User{}).Role() != "" {
		t.Fatal("user without cargo has no role")
	}
}

func TestApplyDefaults(t *testing.T) {
	d := IncidentDraft{Metadata: &Metadata{}, Adjuntos: &Adjuntos{}}
	d.ApplyDefaults()
	if d.Metadata.Version != DefaultFormVersion {
		t.Fatalf("unexpected version %q", d.Metadata.Version)
	}
	if d.VehiculosB == nil || len(d.VehiculosB) != 0 {
		t.Fatal("vehiculos_b must default to an empty list")
	}
	if d.Adjuntos.Fotos == nil || d.Adjuntos.Otros == nil {
		t.Fatal("attachment lists must default to empty")
	}
}
