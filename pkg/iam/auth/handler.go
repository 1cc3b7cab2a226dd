package auth

import (
	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/pkg/iam/user"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *AuthService
}

func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

func (h *Handlers) RegisterRoutes(app *fiber.App, mw *AuthMiddleware) {
	group := app.Group("/auth")
	group.Post("/register", h.Register)
	group.Post("/login", h.Login)
	group.Post("/logout", mw.Authenticate(), h.Logout)
	group.Get("/me", mw.Authenticate(), h.Me)
	group.Post("/users", mw.Authenticate(), mw.RequireRole(user.RoleAdmin), h.CreateUser)
}

// Register creates an account
// POST /auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.New("invalid request body", errx.TypeValidation)
	}

	resp, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// CreateUser lets an admin create an account with any role
// POST /auth/users
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.New("invalid request body", errx.TypeValidation)
	}

	resp, err := h.service.CreateUser(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login returns an access token
// POST /auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidCredentials()
	}

	resp, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Logout revokes the current token
// POST /auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	authCtx, ok := GetAuthContext(c)
	if !ok {
		return ErrMissingToken()
	}
	if err := h.service.Logout(c.UserContext(), authCtx); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me returns the current user
// GET /auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	authCtx, ok := GetAuthContext(c)
	if !ok {
		return ErrMissingToken()
	}
	resp, err := h.service.Me(c.UserContext(), authCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
