package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/testsupport"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	app   *fiber.App
	store *testsupport.UserStore
	media *testsupport.MediaStore
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	cfg := &config.Config{
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: 240 * time.Hour,
		CookieSecure:       true,
	}
	store := testsupport.NewUserStore()
	media := &testsupport.MediaStore{}
	tokens := services.NewTokenService(store, cfg)
	auth := services.NewAuthService(store, tokens)
	users := services.NewUserService(store, auth, media, nil)

	authHandler := handlers.NewAuthHandler(auth, users, cfg)
	userHandler := handlers.NewUserHandler(users)
	guard := middleware.Guard(tokens, store)

	app := fiber.New()
	api := app.Group("/api/v1/users")
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh-token", authHandler.Refresh)
	api.Post("/logout", guard, authHandler.Logout)
	api.Post("/change-password", guard, authHandler.ChangePassword)
	api.Get("/current-user", guard, userHandler.CurrentUser)

	return &apiFixture{app: app, store: store, media: media}
}

func (f *apiFixture) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (f *apiFixture) register(t *testing.T) {
	t.Helper()
	body, contentType := testsupport.NewMultipartBody().
		Field("username", "alice").
		Field("email", "alice@x.com").
		Field("fullName", "Alice Liddell").
		Field("password", "Secret123").
		File("avatar", "alice.png", []byte("png")).
		Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)

	resp := f.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (f *apiFixture) login(t *testing.T) (*http.Response, dto.AuthResponse) {
	t.Helper()
	resp := f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/login",
		`{"username":"alice","password":"Secret123"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterResponseHidesSecrets(t *testing.T) {
	f := newAPIFixture(t)
	body, contentType := testsupport.NewMultipartBody().
		Field("username", "alice").
		Field("email", "alice@x.com").
		Field("fullName", "Alice").
		Field("password", "Secret123").
		File("avatar", "a.png", []byte("png")).
		Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)

	resp := f.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "alice", raw["username"])
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "refreshToken")
}

func TestRegisterWithoutAvatar(t *testing.T) {
	f := newAPIFixture(t)
	body, contentType := testsupport.NewMultipartBody().
		Field("username", "alice").
		Field("email", "alice@x.com").
		Field("fullName", "Alice").
		Field("password", "Secret123").
		Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)

	resp := f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)

	body, contentType := testsupport.NewMultipartBody().
		Field("username", "alice").
		Field("email", "someone@x.com").
		Field("fullName", "Alice").
		Field("password", "Secret123").
		File("avatar", "a.png", []byte("png")).
		Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)

	resp := f.do(t, req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginSetsSessionCookies(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)

	resp, out := f.login(t)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "alice", out.User.Username)

	for _, name := range []string{identity.AccessTokenCookie, identity.RefreshTokenCookie} {
		c := cookieByName(resp, name)
		require.NotNil(t, c, name)
		assert.True(t, c.HttpOnly, name)
		assert.True(t, c.Secure, name)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite, name)
		assert.Equal(t, "/", c.Path, name)
		assert.Empty(t, c.Domain, name)
	}
	assert.Equal(t, out.RefreshToken, cookieByName(resp, identity.RefreshTokenCookie).Value)
}

func TestLoginErrors(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)

	resp := f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/login", `{"password":"Secret123"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"ghost","password":"Secret123"}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/login", `{"email":"alice@x.com","password":"nope-nope"}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.True(t, decodeError(t, resp).Error)
}

func TestRefreshFromCookieAndBody(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)
	_, t1 := f.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: identity.RefreshTokenCookie, Value: t1.RefreshToken})
	resp := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var t2 dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&t2))
	assert.NotEqual(t, t1.RefreshToken, t2.RefreshToken)
	assert.Equal(t, t2.RefreshToken, cookieByName(resp, identity.RefreshTokenCookie).Value)

	resp = f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token",
		`{"refreshToken":"`+t1.RefreshToken+`"}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "refresh token is expired or used", decodeError(t, resp).Message)

	resp = f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token",
		`{"refreshToken":"`+t2.RefreshToken+`"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshWithoutToken(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutClearsCookiesAndSession(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)
	_, session := f.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	resp := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, name := range []string{identity.AccessTokenCookie, identity.RefreshTokenCookie} {
		c := cookieByName(resp, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value, name)
		assert.True(t, c.HttpOnly, name)
		assert.True(t, c.Secure, name)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite, name)
		assert.True(t, c.Expires.Before(time.Now()), name)
	}

	resp = f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token",
		`{"refreshToken":"`+session.RefreshToken+`"}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentUserViaCookie(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)
	_, session := f.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(&http.Cookie{Name: identity.AccessTokenCookie, Value: session.AccessToken})
	resp := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "alice@x.com", user.Email)
}

func TestChangePasswordEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)
	_, session := f.login(t)

	req := jsonRequest(http.MethodPost, "/api/v1/users/change-password",
		`{"oldPassword":"wrong-one","newPassword":"NewSecret456"}`)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, req).StatusCode)

	req = jsonRequest(http.MethodPost, "/api/v1/users/change-password",
		`{"oldPassword":"Secret123","newPassword":"NewSecret456"}`)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	assert.Equal(t, http.StatusOK, f.do(t, req).StatusCode)

	resp := f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/login",
		`{"username":"alice","password":"NewSecret456"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerErrorsAreMasked(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)
	f.store.Err = errors.New("pq: connection refused")

	resp := f.do(t, jsonRequest(http.MethodPost, "/api/v1/users/login",
		`{"username":"alice","password":"Secret123"}`))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decodeError(t, resp).Message)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		services.Validation("x"):                       http.StatusBadRequest,
		services.ErrWrongPassword:                      http.StatusUnauthorized,
		services.ErrRefreshReused:                      http.StatusUnauthorized,
		services.ErrUserNotFound:                       http.StatusNotFound,
		services.ErrUserExists:                         http.StatusConflict,
		services.ErrForbidden:                          http.StatusForbidden,
		services.ErrTokenIssuance:                      http.StatusInternalServerError,
		errors.New("unexpected"):                       http.StatusInternalServerError,
		context.DeadlineExceeded:                       http.StatusInternalServerError,
		services.ErrTokenMissing:                       http.StatusUnauthorized,
		services.ErrChannelNotFound:                    http.StatusNotFound,
		services.ErrInvalidCredentials:                 http.StatusUnauthorized,
		services.NewError(services.ErrConflict, "dup"): http.StatusConflict,
	}
	for err, want := range cases {
		assert.Equal(t, want, handlers.StatusFor(err), err.Error())
	}
}
