package like

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const msgBooleanOnly = "Only boolean data is accepted"

type LikeHandler struct {
	service *LikeService
}

func NewLikeHandler(service *LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

func (h *LikeHandler) LikeVideo(c *fiber.Ctx) error {
	return h.set(c, TargetVideo, "videoId")
}

func (h *LikeHandler) LikeComment(c *fiber.Ctx) error {
	return h.set(c, TargetComment, "commentId")
}

func (h *LikeHandler) LikeTweet(c *fiber.Ctx) error {
	return h.set(c, TargetTweet, "tweetId")
}

func (h *LikeHandler) set(c *fiber.Ctx, target Target, param string) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	targetID, err := uuid.Parse(c.Params(param))
	if err != nil {
		return handlers.BadRequest(c, "Invalid "+string(target)+" ID")
	}

	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil || req.IsLiked == nil {
		return handlers.BadRequest(c, msgBooleanOnly)
	}

	resp, err := h.service.Set(c.UserContext(), userID, target, targetID, *req.IsLiked)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(resp)
}
