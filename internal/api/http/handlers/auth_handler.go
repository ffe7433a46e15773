package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-tracker/internal/api/dto"
	"github.com/spec-kit/query-tracker/internal/auth"
	"github.com/spec-kit/query-tracker/internal/domain"
	"github.com/spec-kit/query-tracker/internal/service"
	"github.com/spec-kit/query-tracker/internal/session"
)

// AuthHandler exposes registration, login, and password reset.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Store
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "role must be Client, Support, or Admin")
	}

	user, err := h.auth.Register(c.Context(), req.Username, req.Password, role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "role must be Client, Support, or Admin")
	}

	token, exp, err := h.auth.Authenticate(c.Context(), req.Username, req.Password, role)
	if err != nil {
		return err
	}

	_ = h.sessions.RecordLogin(c.Context(), req.Username, time.Now())

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"username": req.Username,
			"role":     role,
			"auth":     dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout for authenticated callers.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	_ = h.sessions.RecordLogout(c.Context(), principal.Username, time.Now())
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Session handles GET /auth/session: the caller's recorded login and logout
// times, if any survive in the session store.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	times, err := h.sessions.Times(c.Context(), principal.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"username":  principal.Username,
			"role":      principal.Role,
			"login_at":  times.LoginAt,
			"logout_at": times.LogoutAt,
		},
	})
}

// ResetPassword handles POST /auth/password/reset. A reset targeting an
// unknown (username, role) pair reports success; the stored behavior is a
// silent no-op.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "role must be Client, Support, or Admin")
	}

	if err := h.auth.ResetPassword(c.Context(), req.Username, req.NewPassword, role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}
