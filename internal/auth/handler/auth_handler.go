package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/dto"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/service"
	autherror "github.com/thienan2003bt/awp-user-registration-be/internal/errors"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if input.Email == "" || input.Username == "" || input.Password == "" {
		return badRequest(c, "email, username and password are required")
	}
	if !strings.Contains(input.Email, "@") {
		return badRequest(c, "invalid email")
	}

	account, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if input.Email == "" || input.Password == "" {
		return badRequest(c, "email and password are required")
	}

	tokens, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// Refresh verifies the supplied refresh token's signature and expiry, then
// lets the service check it against the stored slot. Signature validity alone
// never mints tokens; the store match is what implements revocation.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if input.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	claims, err := h.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return domainError(c, err)
	}

	tokens, err := h.userService.Refresh(c.Context(), input.RefreshToken, claims.UserID)
	if err != nil {
		return domainError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	accountID, _ := c.Locals(localsAccountID).(string)

	if err := h.userService.Logout(c.Context(), accountID); err != nil {
		return domainError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	accountID, _ := c.Locals(localsAccountID).(string)

	profile, err := h.userService.GetProfile(c.Context(), accountID)
	if err != nil {
		return domainError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// domainError translates domain sentinels into transport statuses. Domain
// errors are expected traffic; anything unrecognized is a 500.
func domainError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, autherror.ErrDuplicateAccount):
		status = fiber.StatusConflict
	case errors.Is(err, autherror.ErrAccountNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, autherror.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, autherror.ErrTokenExpired), errors.Is(err, autherror.ErrTokenInvalid):
		status = fiber.StatusUnauthorized
	case errors.Is(err, autherror.ErrAccessDenied):
		status = fiber.StatusForbidden
	}

	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
