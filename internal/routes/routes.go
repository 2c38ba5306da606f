package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Limits are per client IP and minute.
const (
	apiRateLimit  = 120
	authRateLimit = 10
)

func Setup(
	app *fiber.App,
	guard fiber.Handler,
	limiterStorage fiber.Storage,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	plugins []features.Plugin,
	deps features.Deps,
) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api/v1")
	api.Use(rateLimit("api", apiRateLimit, limiterStorage))

	api.Get("/healthcheck", healthHandler.Check)

	// Public session endpoints get a stricter limit.
	users := api.Group("/users")
	authLimit := rateLimit("auth", authRateLimit, limiterStorage)
	users.Post("/register", authLimit, authHandler.Register)
	users.Post("/login", authLimit, authHandler.Login)
	users.Post("/refresh-token", authLimit, authHandler.Refresh)

	// Protected routes. The guard is attached per route so the public routes above
	// stay reachable on the same group.
	users.Post("/logout", guard, authHandler.Logout)
	users.Post("/change-password", guard, authHandler.ChangePassword)
	users.Get("/current-user", guard, userHandler.CurrentUser)
	users.Patch("/update-account", guard, userHandler.UpdateAccount)
	users.Patch("/avatar", guard, userHandler.UpdateAvatar)
	users.Patch("/cover-image", guard, userHandler.UpdateCoverImage)
	users.Get("/c/:username", guard, userHandler.ChannelProfile)
	users.Get("/history", guard, userHandler.WatchHistory)

	for _, p := range plugins {
		p.RegisterRoutes(api.Group("/"+p.ID(), guard), deps)
	}
}

// rateLimit keys counters by scope and client IP so limiters sharing one storage
// do not count each other's requests.
func rateLimit(scope string, limit int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return scope + ":" + c.IP() },
		Storage:           storage,
	})
}
