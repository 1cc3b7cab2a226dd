package user

import (
	"context"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
)

type Repository interface {
	// Create stores a new user. A taken email returns EMAIL_ALREADY_REGISTERED.
	Create(ctx context.Context, u *User) error

	GetByID(ctx context.Context, id kernel.UserID) (*User, error)

	// GetByEmail expects a normalized address
	GetByEmail(ctx context.Context, email kernel.Email) (*User, error)
}
