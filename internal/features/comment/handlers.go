package comment

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CommentHandler struct {
	service *CommentService
}

func NewCommentHandler(service *CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) Add(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid video ID")
	}

	var req ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadRequest(c, "Invalid request body")
	}

	comment, err := h.service.Add(c.UserContext(), userID, videoID, req.text())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid comment ID")
	}

	var req ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadRequest(c, "Invalid request body")
	}

	comment, err := h.service.Update(c.UserContext(), userID, commentID, req.text())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid comment ID")
	}

	if err := h.service.Delete(c.UserContext(), userID, commentID); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Comment deleted successfully"})
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	videoID, err := uuid.Parse(c.Params("videoId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid video ID")
	}
	var q ListQuery
	if err := c.QueryParser(&q); err != nil {
		return handlers.BadRequest(c, "Invalid query parameters")
	}

	resp, err := h.service.List(c.UserContext(), videoID, q)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(resp)
}
