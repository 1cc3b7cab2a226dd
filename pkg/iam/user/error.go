package user

import (
	"net/http"

	"github.com/Abraxas-365/resumescan/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("USER")

// Error codes
var (
	CodeUserNotFound           = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailAlreadyRegistered = ErrRegistry.Register("EMAIL_ALREADY_REGISTERED", errx.TypeConflict, http.StatusConflict, "Email already registered")
	CodeInvalidEmail           = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Invalid email format")
	CodeWeakPassword           = ErrRegistry.Register("WEAK_PASSWORD", errx.TypeValidation, http.StatusBadRequest, "Password must be at least 8 characters")
	CodeInvalidRole            = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Role must be Admin or User")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrEmailAlreadyRegistered() *errx.Error {
	return ErrRegistry.New(CodeEmailAlreadyRegistered)
}

func ErrInvalidEmail() *errx.Error {
	return ErrRegistry.New(CodeInvalidEmail)
}

func ErrWeakPassword() *errx.Error {
	return ErrRegistry.New(CodeWeakPassword)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}
