package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/testsupport"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: 240 * time.Hour,
	}
}

type guardFixture struct {
	app    *fiber.App
	store  *testsupport.UserStore
	tokens *services.TokenService
	user   *models.User
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	store := testsupport.NewUserStore()
	tokens := services.NewTokenService(store, guardConfig())

	user := &models.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice",
		Avatar:   "a.png",
		Password: "hash",
	}
	require.NoError(t, store.Create(context.Background(), user))

	app := fiber.New()
	app.Get("/me", middleware.Guard(tokens, store), func(c *fiber.Ctx) error {
		u, err := identity.GetUser(c)
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if u.Password != "" || u.RefreshToken != nil {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(u.Username)
	})
	return &guardFixture{app: app, store: store, tokens: tokens, user: user}
}

func (f *guardFixture) do(t *testing.T, req *http.Request) int {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestGuard_AcceptsBearerHeader(t *testing.T) {
	f := newGuardFixture(t)
	token, err := f.tokens.IssueAccessToken(f.user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, f.do(t, req))
}

func TestGuard_AcceptsCookie(t *testing.T) {
	f := newGuardFixture(t)
	token, err := f.tokens.IssueAccessToken(f.user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: identity.AccessTokenCookie, Value: token})
	assert.Equal(t, http.StatusOK, f.do(t, req))
}

func TestGuard_RejectsMissingToken(t *testing.T) {
	f := newGuardFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, req))
}

func TestGuard_RejectsExpiredToken(t *testing.T) {
	f := newGuardFixture(t)
	past := func() time.Time { return time.Now().Add(-time.Hour) }
	issuer := services.NewTokenService(f.store, guardConfig(), services.WithClock(past))
	token, err := issuer.IssueAccessToken(f.user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, req))
}

func TestGuard_RejectsForeignSignature(t *testing.T) {
	f := newGuardFixture(t)
	cfg := guardConfig()
	cfg.AccessTokenSecret = "not-our-secret"
	token, err := services.NewTokenService(f.store, cfg).IssueAccessToken(f.user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, req))
}

func TestGuard_RejectsRefreshToken(t *testing.T) {
	f := newGuardFixture(t)
	cfg := guardConfig()
	cfg.RefreshTokenSecret = cfg.AccessTokenSecret
	token, err := services.NewTokenService(f.store, cfg).IssueRefreshToken(f.user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, req))
}

func TestGuard_RejectsDeletedUser(t *testing.T) {
	f := newGuardFixture(t)
	token, err := f.tokens.IssueAccessToken(f.user)
	require.NoError(t, err)
	f.store.Delete(f.user.ID)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, req))
}

func TestGuard_StoreFailureIsInternal(t *testing.T) {
	f := newGuardFixture(t)
	token, err := f.tokens.IssueAccessToken(f.user)
	require.NoError(t, err)
	f.store.Err = errors.New("db down")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, f.do(t, req))
}
