package validation

import (
	"errors"
	"strings"
	"testing"

	"siniestros-api/internal/apperr"
	"siniestros-api/internal/models"
)

const validIncident = `{
  "formId": "F-001",
  "metadata": {"origen": "app"},
  "antecedentes_siniestro": {"comuna": "Providencia", "lesionados": false, "concurrio_carabineros": null},
  "vehiculo_a": {
    "persona": {"nombre_completo": "Ana Pérez", "rut": "12345678-5"},
    "vehiculo": {"marca": "Kia", "modelo": "Rio", "patente": "ABCD12"}
  }
}`

func asValidation(t *testing.T, err error) *apperr.Error {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	return appErr
}

func hasField(appErr *apperr.Error, field string) bool {
	for _, d := range appErr.Details {
		if d.Field == field {
			return true
		}
	}
	return false
}

func TestValidRUT(t *testing.T) {
	valid := []string{"1234567-8", "12345678-9", "12345678-K", "1234567-k", "00000000-0"}
	for _, r := range valid {
		if !ValidRUT(r) {
			t.Fatalf("%q must be valid", r)
		}
	}
	invalid := []string{"", "123456-7", "123456789-1", "12.345.678-9", "12345678-X", "12345678", "12345678-10", " 12345678-9", "abcdefgh-1"}
	for _, r := range invalid {
		if ValidRUT(r) {
			t.Fatalf("%q must be invalid", r)
		}
	}
}

func TestUserDraftRejectsBadRUTCitingField(t *testing.T) {
	v := New()
	var d models.UserDraft
	err := v.DecodeCreate([]byte(`{"nombres":"Ana","apellidos":"Pérez","rut":"12.345.678-9","password":"secreto"}`), &d)
	appErr := asValidation(t, err)
	if !hasField(appErr, "rut") {
		t.Fatalf("expected rut detail, got %+v", appErr.Details)
	}
	if !strings.Contains(appErr.Message, "rut") {
		t.Fatalf("message must cite rut: %q", appErr.Message)
	}
}

func TestUserDraftRejectsUnknownRole(t *testing.T) {
	v := New()
	var d models.UserDraft
	err := v.DecodeCreate([]byte(`{"nombres":"Ana","apellidos":"Pérez","rut":"12345678-9","password":"secreto","cargo":"GERENTE"}`), &d)
	appErr := asValidation(t, err)
	if !hasField(appErr, "cargo") {
		t.Fatalf("expected cargo detail, got %+v", appErr.Details)
	}
}

func TestUserDraftAccepted(t *testing.T) {
	v := New()
	var d models.UserDraft
	err := v.DecodeCreate([]byte(`{"nombres":"Ana","apellidos":"Pérez","rut":"12345678-k","password":"secreto","cargo":"JEFE_AREA","region":"RM"}`), &d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Cargo == nil || *d.Cargo != models.RoleJefeArea || d.Region == nil || *d.Region != "RM" {
		t.Fatalf("unexpected draft: %+v", d)
	}
}

func TestIncidentDraftAcceptedWithDefaults(t *testing.T) {
	v := New()
	var d models.IncidentDraft
	if err := v.DecodeCreate([]byte(validIncident), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Metadata.Version != models.DefaultFormVersion {
		t.Fatalf("expected default version, got %q", d.Metadata.Version)
	}
	if d.VehiculosB == nil {
		t.Fatal("vehiculos_b must default to empty")
	}
	if d.Antecedentes.Lesionados != models.TriFalse || d.Antecedentes.ConcurrioCarabineros != models.TriUnknown {
		t.Fatalf("unexpected tri-states: %+v", d.Antecedentes)
	}
}

func TestIncidentDraftMissingVehiculoA(t *testing.T) {
	v := New()
	var d models.IncidentDraft
	err := v.DecodeCreate([]byte(`{"formId":"F-1","metadata":{},"antecedentes_siniestro":{}}`), &d)
	appErr := asValidation(t, err)
	if !hasField(appErr, "vehiculo_a") {
		t.Fatalf("expected vehiculo_a detail, got %+v", appErr.Details)
	}
	if !strings.Contains(appErr.Message, "vehiculo_a") {
		t.Fatalf("message must cite vehiculo_a: %q", appErr.Message)
	}
}

func TestIncidentDraftNestedPaths(t *testing.T) {
	v := New()
	var d models.IncidentDraft
	body := `{
	  "formId": "F-1", "metadata": {}, "antecedentes_siniestro": {},
	  "vehiculo_a": {"persona": {"nombre_completo": "A", "rut": "1-1"}, "vehiculo": {"marca": "X", "modelo": "Y", "patente": "AB"}},
	  "vehiculos_b": [{"persona": {"nombre_completo": "B", "rut": "7654321-0", "email": "no-es-email"}, "vehiculo": {"marca": "X", "modelo": "Y", "patente": "ZZZ999"}}]
	}`
	appErr := asValidation(t, v.DecodeCreate([]byte(body), &d))
	for _, field := range []string{"vehiculo_a.persona.rut", "vehiculo_a.vehiculo.patente", "vehiculos_b[0].persona.email"} {
		if !hasField(appErr, field) {
			t.Fatalf("expected %s in %+v", field, appErr.Details)
		}
	}
}

func TestDecodeTypeMismatchIsFieldError(t *testing.T) {
	v := New()
	var d models.IncidentDraft
	body := strings.Replace(validIncident, `"lesionados": false`, `"lesionados": "no"`, 1)
	appErr := asValidation(t, v.DecodeCreate([]byte(body), &d))
	if !hasField(appErr, "antecedentes_siniestro.lesionados") {
		t.Fatalf("expected lesionados detail, got %+v", appErr.Details)
	}
}

func TestDecodeMalformedAndEmptyBodies(t *testing.T) {
	v := New()
	for _, body := range []string{"", "   ", "{", "[1,2]"} {
		var d models.IncidentDraft
		appErr := asValidation(t, v.DecodeCreate([]byte(body), &d))
		if !hasField(appErr, "body") {
			t.Fatalf("body %q: expected body detail, got %+v", body, appErr.Details)
		}
	}
}

func TestDecodePartialMakesTopLevelOptional(t *testing.T) {
	v := New()
	var d models.UserDraft
	fields, err := v.DecodePartial([]byte(`{"region":"Biobío"}`), &d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fields.Has("region") || fields.Has("nombres") {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestDecodePartialStillValidatesPresentFields(t *testing.T) {
	v := New()
	var d models.UserDraft
	_, err := v.DecodePartial([]byte(`{"password":"123","region":"RM"}`), &d)
	appErr := asValidation(t, err)
	if !hasField(appErr, "password") || len(appErr.Details) != 1 {
		t.Fatalf("expected only password detail, got %+v", appErr.Details)
	}

	var inc models.IncidentDraft
	_, err = v.DecodePartial([]byte(`{"vehiculo_a":{"persona":{"nombre_completo":"A","rut":"bad"}}}`), &inc)
	appErr = asValidation(t, err)
	if !hasField(appErr, "vehiculo_a.persona.rut") || !hasField(appErr, "vehiculo_a.vehiculo") {
		t.Fatalf("nested fields of a present block must be validated: %+v", appErr.Details)
	}
	if hasField(appErr, "formId") {
		t.Fatalf("absent top-level fields must be optional: %+v", appErr.Details)
	}
}

func TestDecodePartialRejectsEmptyObject(t *testing.T) {
	v := New()
	var d models.UserDraft
	_, err := v.DecodePartial([]byte(`{}`), &d)
	asValidation(t, err)
}

func TestDecodePartialReportsExplicitNull(t *testing.T) {
	v := New()
	var d models.UserDraft
	fields, err := v.DecodePartial([]byte(`{"cargo":null,"region":"RM"}`), &d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fields.Has("cargo") || !fields.IsNull("cargo") {
		t.Fatalf("cargo must be present and null: %v", fields)
	}
	if fields.IsNull("region") || fields.IsNull("nombres") {
		t.Fatalf("only explicit nulls count: %v", fields)
	}
}
