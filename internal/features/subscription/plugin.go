package subscription

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionPlugin struct{}

func New() *SubscriptionPlugin {
	return &SubscriptionPlugin{}
}

func (p *SubscriptionPlugin) ID() string { return "subscriptions" }

// Models is empty: subscriptions are read by the channel profile and migrated with the core models.
func (p *SubscriptionPlugin) Models() []any { return nil }

func (p *SubscriptionPlugin) RegisterRoutes(router fiber.Router, deps features.Deps) {
	handler := NewSubscriptionHandler(NewSubscriptionService(deps.DB))

	router.Post("/subscribe/:channelId", handler.Toggle)
}
