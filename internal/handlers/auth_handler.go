package handlers

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService  *services.AuthService
	userService  *services.UserService
	cookieSecure bool
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, cookieSecure: cfg.CookieSecure}
}

// Register takes a multipart form with the account fields, an avatar file and an
// optional coverImage file.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequest(c, "Invalid request body")
	}

	avatar, _ := c.FormFile("avatar")
	cover, _ := c.FormFile("coverImage")

	user, err := h.userService.Register(c.UserContext(), req, avatar, cover)
	if err != nil {
		return RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequest(c, "Invalid request body")
	}

	res, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}

	setSessionCookies(c, res.Tokens.AccessToken, res.Tokens.RefreshToken, h.cookieSecure)
	return c.JSON(dto.AuthResponse{
		User:         dto.NewUserResponse(&res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	})
}

// Refresh reads the refresh token from its cookie, falling back to the JSON body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	presented := c.Cookies(identity.RefreshTokenCookie)
	if presented == "" && len(c.Body()) > 0 {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err != nil {
			return BadRequest(c, "Invalid request body")
		}
		presented = req.RefreshToken
	}

	pair, err := h.authService.Refresh(c.UserContext(), presented)
	if err != nil {
		return RespondError(c, err)
	}

	setSessionCookies(c, pair.AccessToken, pair.RefreshToken, h.cookieSecure)
	return c.JSON(dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return RespondError(c, services.ErrTokenMissing)
	}

	if err := h.authService.Logout(c.UserContext(), userID); err != nil {
		return RespondError(c, err)
	}

	clearSessionCookies(c, h.cookieSecure)
	return c.JSON(dto.MessageResponse{Message: "User logged out"})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return RespondError(c, services.ErrTokenMissing)
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequest(c, "Invalid request body")
	}

	if err := h.authService.ChangePassword(c.UserContext(), userID, req.OldPassword, req.NewPassword); err != nil {
		return RespondError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Password changed successfully"})
}
