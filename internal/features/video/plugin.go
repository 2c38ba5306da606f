package video

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features"
	"github.com/gofiber/fiber/v2"
)

type VideoPlugin struct{}

func New() *VideoPlugin {
	return &VideoPlugin{}
}

func (p *VideoPlugin) ID() string { return "videos" }

// Models is empty: videos and watch history are core models migrated at startup.
func (p *VideoPlugin) Models() []any { return nil }

func (p *VideoPlugin) RegisterRoutes(router fiber.Router, deps features.Deps) {
	svc := NewVideoService(deps.DB, deps.Media)
	handler := NewVideoHandler(svc)

	router.Post("/publish-video", handler.Publish)
	router.Get("/get-videos", handler.List)
	router.Get("/get-video/:videoId", handler.Get)
	router.Patch("/update-video/:videoId", handler.Update)
	router.Delete("/delete-video/:videoId", handler.Delete)
	router.Patch("/publish-status/:videoId", handler.SetPublishStatus)
}
