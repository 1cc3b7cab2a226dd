package auth

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/pkg/iam/user"
	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    kernel.Email `json:"email"`
	Password string       `json:"password"`
	Role     string       `json:"role"`
}

type LoginRequest struct {
	Email    kernel.Email `json:"email"`
	Password string       `json:"password"`
}

type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresAt   time.Time         `json:"expires_at"`
	User        user.UserResponse `json:"user"`
}

type AuthService struct {
	users       user.Repository
	hasher      *PasswordHasher
	tokens      *TokenService
	revocations RevocationStore

	// public sign-up may pick the Admin role
	allowAdminSignup bool
}

func NewAuthService(users user.Repository, hasher *PasswordHasher, tokens *TokenService, revocations RevocationStore, allowAdminSignup bool) *AuthService {
	return &AuthService{
		users:            users,
		hasher:           hasher,
		tokens:           tokens,
		revocations:      revocations,
		allowAdminSignup: allowAdminSignup,
	}
}

// Register is public sign-up. Asking for the Admin role is refused unless
// admin sign-up is enabled.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*user.UserResponse, error) {
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if role == user.RoleAdmin && !s.allowAdminSignup {
		return nil, ErrAdminSignupClosed()
	}
	return s.CreateUser(ctx, req)
}

// CreateUser creates an account with any role. The password is stored as a bcrypt hash.
func (s *AuthService) CreateUser(ctx context.Context, req RegisterRequest) (*user.UserResponse, error) {
	email := req.Email.Normalize()
	if !email.IsValid() {
		return nil, user.ErrInvalidEmail().WithDetail("email", req.Email)
	}
	if len(req.Password) < user.MinPasswordLength {
		return nil, user.ErrWeakPassword().WithDetail("min_length", user.MinPasswordLength)
	}
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           kernel.NewUserID(uuid.NewString()),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	logx.Infof("Registered user %s with role %s", u.ID, u.Role)
	resp := u.ToResponse()
	return &resp, nil
}

// Login checks the credentials and issues an access token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	email := req.Email.Normalize()
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errx.IsCode(err, user.CodeUserNotFound) {
			return nil, ErrInvalidCredentials()
		}
		return nil, err
	}

	if err := s.hasher.Verify(u.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, claims, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return nil, errx.Wrap(err, "failed to generate access token", errx.TypeInternal)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        u.ToResponse(),
	}, nil
}

// Logout revokes the token until it expires
func (s *AuthService) Logout(ctx context.Context, authCtx *AuthContext) error {
	if err := s.revocations.Revoke(ctx, authCtx.TokenID, authCtx.ExpiresAt); err != nil {
		return errx.Wrap(err, "failed to revoke token", errx.TypeInternal)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID kernel.UserID) (*user.UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := u.ToResponse()
	return &resp, nil
}
