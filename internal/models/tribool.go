package models

import (
	"encoding/json"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// TriBool es un booleano que admite "no registrado" como tercer estado (null en JSON/BSON).
type TriBool int8

const (
	TriUnknown TriBool = iota
	TriFalse
	TriTrue
)

func TriOf(b bool) TriBool {
	if b {
		return TriTrue
	}
	return TriFalse
}

// Bool devuelve el valor y si está registrado.
func (t TriBool) Bool() (value, known bool) {
	switch t {
	case TriTrue:
		return true, true
	case TriFalse:
		return false, true
	}
	return false, false
}

func (t TriBool) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	}
	return "null"
}

func (t TriBool) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TriBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		*t = TriUnknown
	case "true":
		*t = TriTrue
	case "false":
		*t = TriFalse
	default:
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeOf(*t)}
	}
	return nil
}

func (t TriBool) MarshalBSONValue() (bsontype.Type, []byte, error) {
	v, known := t.Bool()
	if !known {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(v)
}

func (t *TriBool) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	switch typ {
	case bson.TypeNull, bson.TypeUndefined:
		*t = TriUnknown
	case bson.TypeBoolean:
		*t = TriOf(bson.RawValue{Type: typ, Value: data}.Boolean())
	default:
		return fmt.Errorf("cannot decode BSON %s into TriBool", typ)
	}
	return nil
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	switch data[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	}
	return "number"
}
