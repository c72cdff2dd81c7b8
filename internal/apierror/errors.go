// Package apierror holds the error taxonomy shared by services and handlers
// and the JSON envelope every 4xx/5xx response is written with.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// ── Sentinel errors ──────────────────────────────────────────────────────────
// Services wrap these with context; handlers map them to HTTP status codes
// through Status. Use errors.Is to classify.

var (
	// ErrValidacion covers bad inputs to the generator and the ledger
	// (monto/plazo/tasa out of range, overpayment, unknown enum values).
	ErrValidacion = errors.New("error de validacion")

	// ErrNoEncontrado is returned when a lookup does not resolve.
	ErrNoEncontrado = errors.New("registro no encontrado")

	// ErrCardinalidad is returned when creating a second row of a singleton entity.
	ErrCardinalidad = errors.New("ya existe un registro")

	// ErrPermiso is returned for unauthenticated or unauthorized access.
	ErrPermiso = errors.New("permiso denegado")
)

// ── Structured errors ────────────────────────────────────────────────────────

// DomainError carries a user-facing message and the sentinel it belongs to.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }

func (e *DomainError) Unwrap() error { return e.Kind }

// Validacion builds an ErrValidacion with a specific message.
func Validacion(format string, args ...any) error {
	return &DomainError{Kind: ErrValidacion, Msg: fmt.Sprintf(format, args...)}
}

// NoEncontrado builds an ErrNoEncontrado naming the entity that was looked up.
func NoEncontrado(entidad string) error {
	return &DomainError{Kind: ErrNoEncontrado, Msg: entidad + " no encontrado"}
}

// Cardinalidad builds an ErrCardinalidad for a singleton entity.
func Cardinalidad(entidad string) error {
	return &DomainError{Kind: ErrCardinalidad, Msg: fmt.Sprintf("Ya existe un registro de %s; solo se permite uno", entidad)}
}

// Permiso builds an ErrPermiso.
func Permiso(msg string) error {
	return &DomainError{Kind: ErrPermiso, Msg: msg}
}

// Status maps an error to the HTTP status code the API answers with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidacion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, ErrCardinalidad):
		return http.StatusConflict
	case errors.Is(err, ErrPermiso):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether err belongs to the taxonomy (4xx).
func IsClientError(err error) bool {
	return Status(err) < http.StatusInternalServerError
}

// ── Envelope ─────────────────────────────────────────────────────────────────

// APIError is the body of every error response: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError { return &APIError{Detail: msg} }

// FromError writes the message of taxonomy errors verbatim; anything else
// becomes a generic message so driver errors never reach the client.
func FromError(err error) *APIError {
	if IsClientError(err) {
		return New(err.Error())
	}
	return New("Error interno del servidor")
}

// ValidationError is the 422 body for DTO validation, one entry per field.
type ValidationError struct {
	APIError
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{APIError: APIError{Detail: "Error de validacion"}, Fields: fields}
}
