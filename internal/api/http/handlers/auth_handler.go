package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/validation"
)

// AuthHandler exposes registration, login and token refresh.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAuthResponse(session))
}

// Token handles POST /token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAuthResponse(session))
}

// Refresh handles POST /token/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAuthResponse(session))
}

// Revoke handles POST /token/revoke.
func (h *AuthHandler) Revoke(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.Revoke(c.UserContext(), req.Refresh); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// bind parses the JSON body into req and validates it.
type normalizer interface {
	Normalize()
}

func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return validation.BindError(err)
	}
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
	return validation.Struct(req)
}
