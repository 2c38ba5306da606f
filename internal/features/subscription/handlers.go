package subscription

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ToggleResponse struct {
	ChannelID    uuid.UUID `json:"channelId"`
	IsSubscribed bool      `json:"isSubscribed"`
}

type SubscriptionHandler struct {
	service *SubscriptionService
}

func NewSubscriptionHandler(service *SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) Toggle(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return handlers.RespondError(c, services.ErrTokenMissing)
	}
	channelID, err := uuid.Parse(c.Params("channelId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid channel ID")
	}
	subscribed, err := strconv.ParseBool(c.Query("isSubscribed"))
	if err != nil {
		return handlers.BadRequest(c, "isSubscribed must be true or false")
	}

	resp, err := h.service.Set(c.UserContext(), userID, channelID, subscribed)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(resp)
}
