package userinfra

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Abraxas-365/resumescan/internal/containertest"
	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/pkg/iam/user"
	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id, email string, role user.Role) *user.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &user.User{
		ID:           kernel.UserID(id),
		Email:        kernel.Email(email),
		PasswordHash: "$2a$10$hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPostgresUserRepository(t *testing.T) {
	repo := NewPostgresUserRepository(containertest.Postgres(t))
	ctx := context.Background()

	admin := newUser("u-admin", "admin@example.com", user.RoleAdmin)
	require.NoError(t, repo.Create(ctx, admin))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, admin.Email, got.Email)
		assert.Equal(t, user.RoleAdmin, got.Role)
		assert.Equal(t, admin.PasswordHash, got.PasswordHash)
		assert.WithinDuration(t, admin.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := repo.Create(ctx, newUser("u-other", "admin@example.com", user.RoleUser))
		require.Error(t, err)
		assert.True(t, errx.IsCode(err, user.CodeEmailAlreadyRegistered))
		e, ok := errx.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, e.HTTPStatus)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.True(t, errx.IsCode(err, user.CodeUserNotFound))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.True(t, errx.IsCode(err, user.CodeUserNotFound))
	})
}
