package comment

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features"
	"github.com/gofiber/fiber/v2"
)

type CommentPlugin struct{}

func New() *CommentPlugin {
	return &CommentPlugin{}
}

func (p *CommentPlugin) ID() string { return "comments" }

func (p *CommentPlugin) Models() []any {
	return []any{&Comment{}}
}

func (p *CommentPlugin) RegisterRoutes(router fiber.Router, deps features.Deps) {
	svc := NewCommentService(deps.DB)
	handler := NewCommentHandler(svc)

	router.Get("/video-comments/:videoId", handler.List)
	router.Post("/comment/:videoId", handler.Add)
	router.Patch("/update-comment/:commentId", handler.Update)
	router.Delete("/delete-comment/:commentId", handler.Delete)
}
