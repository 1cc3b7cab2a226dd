package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_New(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "thing not found")

	err := reg.New(code)
	assert.Equal(t, "TEST.NOT_FOUND", err.Code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "TEST.NOT_FOUND: thing not found", err.Error())
}

func TestRegistry_DefaultStatus(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("BAD", TypeValidation, 0, "bad input")
	assert.Equal(t, http.StatusBadRequest, code.HTTPStatus)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := NewRegistry("TEST")
	reg.Register("DUP", TypeInternal, 0, "dup")
	assert.Panics(t, func() { reg.Register("DUP", TypeInternal, 0, "dup") })
}

func TestError_Details(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("X", TypeBusiness, 0, "x")

	err := reg.New(code).
		WithDetail("a", 1).
		WithDetails(map[string]any{"b": "two"})

	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, err.Details)

	resp := err.ToHTTPResponse()
	assert.Equal(t, "TEST.X", resp["code"])
	assert.Equal(t, TypeBusiness, resp["type"])
	assert.Contains(t, resp, "details")
}

func TestError_UnwrapAndIs(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("IO", TypeInternal, 0, "io failed")
	root := errors.New("disk full")

	err := reg.NewWithCause(code, root)
	assert.ErrorIs(t, err, root)
	assert.True(t, IsCode(err, code))
	assert.True(t, IsType(fmt.Errorf("outer: %w", err), TypeInternal))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing", TypeInternal))

	plain := Wrap(errors.New("boom"), "failed to save", TypeInternal)
	require.NotNil(t, plain)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
	assert.Equal(t, "failed to save", plain.Message)

	reg := NewRegistry("TEST")
	code := reg.Register("CONFLICT", TypeConflict, http.StatusConflict, "conflict")
	wrapped := Wrap(reg.New(code), "failed to create", TypeInternal)
	assert.Equal(t, http.StatusConflict, wrapped.HTTPStatus)
	assert.Equal(t, "TEST.CONFLICT", wrapped.Code)
}
