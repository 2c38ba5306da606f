package identity

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	userIDKey = "user_id"
	userKey   = "current_user"
)

var ErrNoIdentity = errors.New("no authenticated user in context")

// SetUser attaches the authenticated user to the request. Only the guard calls it.
func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals(userIDKey, user.ID)
	c.Locals(userKey, user)
}

// GetUserID returns the authenticated user's id.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoIdentity
	}
	return id, nil
}

// GetUser returns the sanitized user resolved by the guard.
func GetUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoIdentity
	}
	return user, nil
}

// OptionalUserID is GetUserID for handlers that also serve anonymous callers.
func OptionalUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := GetUserID(c)
	return id
}

// Session cookie names shared by the auth handler and the guard.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)
