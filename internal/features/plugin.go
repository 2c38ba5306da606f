package features

import (
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps are the shared collaborators handed to every feature.
type Deps struct {
	DB    *gorm.DB
	Media storage.MediaStore
}

// Plugin defines the interface every feature must implement.
type Plugin interface {
	// ID returns the feature name; it is also the route prefix under /api/v1.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []any

	// RegisterRoutes mounts the feature routes on the given group. The group already
	// has the authorization guard applied.
	RegisterRoutes(router fiber.Router, deps Deps)
}
