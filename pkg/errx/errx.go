package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type classifies an error independently of the domain that raised it
type Type string

const (
	TypeValidation     Type = "VALIDATION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeAuthorization  Type = "AUTHORIZATION"
	TypeAuthentication Type = "AUTHENTICATION"
	TypeBusiness       Type = "BUSINESS"
	TypeInternal       Type = "INTERNAL"
	TypeExternal       Type = "EXTERNAL"
)

// defaultStatus maps a type to the HTTP status used when none was registered
var defaultStatus = map[Type]int{
	TypeValidation:     http.StatusBadRequest,
	TypeNotFound:       http.StatusNotFound,
	TypeConflict:       http.StatusConflict,
	TypeAuthorization:  http.StatusForbidden,
	TypeAuthentication: http.StatusUnauthorized,
	TypeBusiness:       http.StatusUnprocessableEntity,
	TypeInternal:       http.StatusInternalServerError,
	TypeExternal:       http.StatusBadGateway,
}

// Error is the structured error returned by every domain package
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"-"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a single key/value to the error details
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the given map into the error details
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause sets the underlying error
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// ToHTTPResponse renders the public part of the error
func (e *Error) ToHTTPResponse() map[string]any {
	resp := map[string]any{
		"error":   e.Message,
		"type":    e.Type,
		"code":    e.Code,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
	}
	return resp
}

// Code is a registered error code
type Code struct {
	ID         string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry namespaces error codes for one domain
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[string]Code
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]Code),
	}
}

// Register declares a code. Registering the same code twice panics.
func (r *Registry) Register(code string, typ Type, status int, message string) Code {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.prefix + "." + code
	if _, exists := r.codes[id]; exists {
		panic("errx: duplicate code " + id)
	}
	if status == 0 {
		status = defaultStatus[typ]
	}

	c := Code{ID: id, Type: typ, HTTPStatus: status, Message: message}
	r.codes[id] = c
	return c
}

// New creates an error instance for a registered code
func (r *Registry) New(code Code) *Error {
	return &Error{
		Code:       code.ID,
		Type:       code.Type,
		HTTPStatus: code.HTTPStatus,
		Message:    code.Message,
	}
}

// NewWithCause creates an error instance wrapping err
func (r *Registry) NewWithCause(code Code, err error) *Error {
	return r.New(code).WithCause(err)
}

// Codes returns every code registered so far
func (r *Registry) Codes() []Code {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Code, 0, len(r.codes))
	for _, c := range r.codes {
		out = append(out, c)
	}
	return out
}

// New creates an ad-hoc error outside of any registry
func New(message string, typ Type) *Error {
	return &Error{
		Code:       "GENERIC." + string(typ),
		Type:       typ,
		HTTPStatus: defaultStatus[typ],
		Message:    message,
	}
}

// Wrap wraps err with a message and type. An *Error cause keeps its code and status.
func Wrap(err error, message string, typ Type) *Error {
	if err == nil {
		return nil
	}
	var inner *Error
	if errors.As(err, &inner) {
		return &Error{
			Code:       inner.Code,
			Type:       inner.Type,
			HTTPStatus: inner.HTTPStatus,
			Message:    message,
			Details:    inner.Details,
			Cause:      err,
		}
	}
	return New(message, typ).WithCause(err)
}

// As returns the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err carries the given type
func IsType(err error, typ Type) bool {
	e, ok := As(err)
	return ok && e.Type == typ
}

// IsCode reports whether err carries the given code
func IsCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code.ID
}
