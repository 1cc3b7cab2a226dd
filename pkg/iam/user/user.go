package user

import (
	"strings"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
)

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

// ParseRole accepts Admin or User case-insensitively. Empty means User.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	default:
		return "", ErrInvalidRole().WithDetail("role", s)
	}
}

type User struct {
	ID           kernel.UserID `db:"id" json:"id"`
	Email        kernel.Email  `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Role         Role          `db:"role" json:"role"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserResponse struct {
	ID        kernel.UserID `json:"id"`
	Email     kernel.Email  `json:"email"`
	Role      Role          `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
