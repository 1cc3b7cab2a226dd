package auth

import (
	"net/http"

	"github.com/Abraxas-365/resumescan/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AUTH")

// Error codes
var (
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid email or password")
	CodeMissingToken       = ErrRegistry.Register("MISSING_TOKEN", errx.TypeAuthentication, http.StatusUnauthorized, "Missing authorization header")
	CodeInvalidToken       = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid or expired token")
	CodeTokenRevoked       = ErrRegistry.Register("TOKEN_REVOKED", errx.TypeAuthentication, http.StatusUnauthorized, "Token has been revoked")
	CodeInsufficientRole   = ErrRegistry.Register("INSUFFICIENT_ROLE", errx.TypeAuthorization, http.StatusForbidden, "Insufficient role")
	CodeAdminSignupClosed  = ErrRegistry.Register("ADMIN_SIGNUP_CLOSED", errx.TypeAuthorization, http.StatusForbidden, "Admin accounts are created by an existing admin")
)

func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials)
}

func ErrMissingToken() *errx.Error {
	return ErrRegistry.New(CodeMissingToken)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrTokenRevoked() *errx.Error {
	return ErrRegistry.New(CodeTokenRevoked)
}

func ErrInsufficientRole() *errx.Error {
	return ErrRegistry.New(CodeInsufficientRole)
}

func ErrAdminSignupClosed() *errx.Error {
	return ErrRegistry.New(CodeAdminSignupClosed)
}
