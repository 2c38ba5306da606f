package handlers

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) CurrentUser(c *fiber.Ctx) error {
	user, err := identity.GetUser(c)
	if err != nil {
		return RespondError(c, services.ErrTokenMissing)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateAccount(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return RespondError(c, services.ErrTokenMissing)
	}

	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateAccount(c.UserContext(), userID, req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return RespondError(c, services.ErrTokenMissing)
	}

	file, _ := c.FormFile("avatar")
	user, err := h.userService.UpdateAvatar(c.UserContext(), userID, file)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateCoverImage(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return RespondError(c, services.ErrTokenMissing)
	}

	file, _ := c.FormFile("coverImage")
	user, err := h.userService.UpdateCoverImage(c.UserContext(), userID, file)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) ChannelProfile(c *fiber.Ctx) error {
	profile, err := h.userService.ChannelProfile(c.UserContext(), c.Params("username"), identity.OptionalUserID(c))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(profile)
}

func (h *UserHandler) WatchHistory(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return RespondError(c, services.ErrTokenMissing)
	}

	items, err := h.userService.WatchHistory(c.UserContext(), userID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(items)
}
