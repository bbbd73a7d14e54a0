package handlers

import (
	"github.com/gofiber/fiber/v2"

	"toolszone/internal/auth"
	"toolszone/internal/domain"
	"toolszone/internal/http/middleware"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleRequest struct {
	IDToken string `json:"idToken"`
}

// AuthHandler serves the /api/auth routes.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func parseJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &domain.Error{Kind: domain.KindInvalidInput, Message: "Invalid request body", Err: err}
	}
	return nil
}

// Register creates an account and answers 201 with a token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	session, err := h.svc.Register(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   session.Token,
		"user":    session.User,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	session, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User,
	})
}

// Google signs in with a Google ID token, creating the account on first use.
func (h *AuthHandler) Google(c *fiber.Ctx) error {
	var req googleRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	session, err := h.svc.GoogleLogin(c.Context(), req.IDToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User,
	})
}

// Me returns the authenticated caller's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return domain.ErrMissingToken
	}
	u, err := h.svc.CurrentUser(c.Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": u})
}

// Logout is stateless; clients drop their token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logout successful"})
}
