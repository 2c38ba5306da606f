package tweet

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features"
	"github.com/gofiber/fiber/v2"
)

type TweetPlugin struct{}

func New() *TweetPlugin {
	return &TweetPlugin{}
}

func (p *TweetPlugin) ID() string { return "tweets" }

func (p *TweetPlugin) Models() []any {
	return []any{&Tweet{}}
}

func (p *TweetPlugin) RegisterRoutes(router fiber.Router, deps features.Deps) {
	svc := NewTweetService(deps.DB)
	handler := NewTweetHandler(svc)

	router.Post("/create-tweet", handler.Create)
	router.Get("/user/:userId", handler.ListByUser)
	router.Patch("/update-tweet/:tweetId", handler.Update)
	router.Delete("/delete-tweet/:tweetId", handler.Delete)
}
