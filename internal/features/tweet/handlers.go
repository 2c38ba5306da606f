package tweet

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TweetHandler struct {
	service *TweetService
}

func NewTweetHandler(service *TweetService) *TweetHandler {
	return &TweetHandler{service: service}
}

func (h *TweetHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}

	var req ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadRequest(c, "Invalid request body")
	}

	tweet, err := h.service.Create(c.UserContext(), userID, req.text())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tweet)
}

func (h *TweetHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid user ID")
	}

	tweets, err := h.service.ListByUser(c.UserContext(), userID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(tweets)
}

func (h *TweetHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	tweetID, err := uuid.Parse(c.Params("tweetId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid tweet ID")
	}

	var req ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadRequest(c, "Invalid request body")
	}

	tweet, err := h.service.Update(c.UserContext(), userID, tweetID, req.text())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(tweet)
}

func (h *TweetHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	tweetID, err := uuid.Parse(c.Params("tweetId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid tweet ID")
	}

	if err := h.service.Delete(c.UserContext(), userID, tweetID); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tweet deleted successfully"})
}
