package like

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features"
	"github.com/gofiber/fiber/v2"
)

type LikePlugin struct{}

func New() *LikePlugin {
	return &LikePlugin{}
}

func (p *LikePlugin) ID() string { return "likes" }

func (p *LikePlugin) Models() []any {
	return []any{&Like{}}
}

func (p *LikePlugin) RegisterRoutes(router fiber.Router, deps features.Deps) {
	svc := NewLikeService(deps.DB)
	handler := NewLikeHandler(svc)

	router.Post("/like-video/:videoId", handler.LikeVideo)
	router.Post("/like-comment/:commentId", handler.LikeComment)
	router.Post("/like-tweet/:tweetId", handler.LikeTweet)
}
