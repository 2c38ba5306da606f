package video

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VideoHandler struct {
	service *VideoService
}

func NewVideoHandler(service *VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

func (h *VideoHandler) Publish(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}

	var req PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadRequest(c, "Invalid request body")
	}
	videoFile, _ := c.FormFile("videoFile")
	thumbnail, _ := c.FormFile("thumbnail")

	video, err := h.service.Publish(c.UserContext(), userID, req, videoFile, thumbnail)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

func (h *VideoHandler) Get(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid video ID")
	}

	video, err := h.service.Get(c.UserContext(), identity.OptionalUserID(c), videoID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(video)
}

func (h *VideoHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid video ID")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadRequest(c, "Invalid request body")
	}
	thumbnail, _ := c.FormFile("thumbnail")

	video, err := h.service.Update(c.UserContext(), userID, videoID, req, thumbnail)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(video)
}

func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid video ID")
	}

	if err := h.service.Delete(c.UserContext(), userID, videoID); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Video deleted successfully"})
}

func (h *VideoHandler) SetPublishStatus(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid video ID")
	}

	var req PublishStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadRequest(c, "publishStatus must be a boolean")
	}

	video, err := h.service.SetPublished(c.UserContext(), userID, videoID, req.PublishStatus)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(video)
}

func (h *VideoHandler) List(c *fiber.Ctx) error {
	var q ListQuery
	if err := c.QueryParser(&q); err != nil {
		return handlers.BadRequest(c, "Invalid query parameters")
	}

	resp, err := h.service.List(c.UserContext(), identity.OptionalUserID(c), q)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(resp)
}
