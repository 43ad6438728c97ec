package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/heartlinkapp/heartlink/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
	log *zap.SugaredLogger
	dev bool
}

func NewAuthHandler(svc *service.AuthService, log *zap.SugaredLogger, dev bool) *AuthHandler {
	return &AuthHandler{svc: svc, log: log, dev: dev}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please provide both email and password",
		})
	}
	creds, err := h.svc.Register(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err, h.dev)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful",
		"token":   creds.Token,
		"userId":  creds.UserID,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please provide both email and password",
		})
	}
	creds, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   creds.Token,
		"userId":  creds.UserID,
	})
}
