package apperr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindAuthentication  Kind = "authentication"
	KindAuthorization   Kind = "authorization"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindTooManyRequests Kind = "too_many_requests"
	KindInternal        Kind = "internal"
)

// InternalMessage es lo único que ve el cliente de un error inesperado.
const InternalMessage = "Internal Server Error"

// FieldError identifica un campo inválido del payload por su ruta JSON.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error es el error tipado que todo handler devuelve; el manejador global lo traduce a HTTP.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Status devuelve el código HTTP asociado al tipo de error.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Stack devuelve la traza capturada al envolver el error, si la hay.
func (e *Error) Stack() string {
	var st interface{ StackTrace() pkgerrors.StackTrace }
	if e.Err != nil && errors.As(e.Err, &st) {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return ""
}

func Validation(message string, details ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Authentication(message string, err error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: err}
}

func Authorization(message string, err error) *Error {
	return &Error{Kind: KindAuthorization, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

func TooManyRequests(message string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: message}
}

// Internal envuelve un fallo inesperado capturando la traza en el punto de llamada.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: InternalMessage, Err: pkgerrors.WithStack(err)}
}

// As convierte cualquier error en *Error; lo desconocido pasa a ser Internal.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
