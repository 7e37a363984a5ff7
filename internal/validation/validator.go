package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"siniestros-api/internal/apperr"
	"siniestros-api/internal/models"

	"github.com/go-playground/validator/v10"
)

// rutPattern: 7 u 8 dígitos, guion y dígito verificador 0-9 o K/k.
var rutPattern = regexp.MustCompile(`^\d{7,8}-[0-9Kk]$`)

func ValidRUT(s string) bool {
	return rutPattern.MatchString(s)
}

// defaulter lo implementan los borradores con valores por defecto declarados.
type defaulter interface {
	ApplyDefaults()
}

// Validator decodifica payloads JSON y aplica las reglas declaradas en los tags `validate`.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return ValidRUT(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// DecodeCreate exige el esquema completo: todo campo obligatorio debe venir.
func (val *Validator) DecodeCreate(raw []byte, dst any) error {
	if err := decode(raw, dst); err != nil {
		return err
	}
	if err := val.check(dst, nil); err != nil {
		return err
	}
	if d, ok := dst.(defaulter); ok {
		d.ApplyDefaults()
	}
	return nil
}

// Fields es el conjunto de claves de primer nivel presentes en un payload parcial.
type Fields map[string]json.RawMessage

func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// IsNull indica si la clave vino con un null explícito.
func (f Fields) IsNull(name string) bool {
	v, ok := f[name]
	return ok && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// DecodePartial es la variante de edición: mismo esquema, pero cada campo de primer
// nivel pasa a ser opcional. Lo que sí viene se valida completo, anidados incluidos.
func (val *Validator) DecodePartial(raw []byte, dst any) (Fields, error) {
	if err := decode(raw, dst); err != nil {
		return nil, err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, apperr.Validation("JSON inválido", apperr.FieldError{Field: "body", Message: err.Error()})
	}
	if len(keys) == 0 {
		return nil, apperr.Validation("Datos inválidos: no hay campos para actualizar")
	}
	present := Fields(keys)
	if err := val.check(dst, present); err != nil {
		return nil, err
	}
	return present, nil
}

func decode(raw []byte, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return apperr.Validation("Datos inválidos: cuerpo vacío", apperr.FieldError{Field: "body", Message: "es obligatorio"})
	}
	err := json.Unmarshal(raw, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		fe := apperr.FieldError{Field: field, Message: fmt.Sprintf("debe ser de tipo %s, se recibió %s", typeName(typeErr.Type), typeErr.Value)}
		return apperr.Validation(summary([]apperr.FieldError{fe}), fe)
	}
	return apperr.Validation("JSON inválido", apperr.FieldError{Field: "body", Message: err.Error()})
}

func (val *Validator) check(dst any, present Fields) error {
	err := val.v.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}
	details := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if present != nil && !present.Has(topLevel(path)) {
			continue
		}
		details = append(details, apperr.FieldError{Field: path, Message: message(fe)})
	}
	if len(details) == 0 {
		return nil
	}
	return apperr.Validation(summary(details), details...)
}

func summary(details []apperr.FieldError) string {
	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, d.Field+" "+d.Message)
	}
	return "Datos inválidos: " + strings.Join(parts, "; ")
}

// fieldPath quita el nombre del struct raíz: "IncidentDraft.vehiculo_a.persona.rut" -> "vehiculo_a.persona.rut".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func topLevel(path string) string {
	if i := strings.IndexAny(path, ".["); i >= 0 {
		return path[:i]
	}
	return path
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "rut":
		return "RUT inválido (formato esperado 12345678-9)"
	case "email":
		return "email inválido"
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return "debe ser mayor o igual a " + fe.Param()
	}
	return fmt.Sprintf("no cumple la regla %q", fe.Tag())
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "desconocido"
	}
	if t == reflect.TypeOf(models.TriBool(0)) {
		return "booleano o null"
	}
	switch t.Kind() {
	case reflect.String:
		return "texto"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return "número"
	case reflect.Bool:
		return "booleano"
	case reflect.Slice, reflect.Array:
		return "lista"
	case reflect.Struct, reflect.Map:
		return "objeto"
	}
	return t.String()
}
