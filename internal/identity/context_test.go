package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice"}

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, err := GetUserID(c)
		assert.ErrorIs(t, err, ErrNoIdentity)
		assert.Equal(t, uuid.Nil, OptionalUserID(c))

		SetUser(c, user)

		id, err := GetUserID(c)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)

		got, err := GetUser(c)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
