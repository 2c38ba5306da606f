package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

// sessionCookie is the one cookie policy used to both set and clear session cookies.
func sessionCookie(name, value string, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

func setSessionCookies(c *fiber.Ctx, accessToken, refreshToken string, secure bool) {
	c.Cookie(sessionCookie(identity.AccessTokenCookie, accessToken, secure))
	c.Cookie(sessionCookie(identity.RefreshTokenCookie, refreshToken, secure))
}

func clearSessionCookies(c *fiber.Ctx, secure bool) {
	expired := time.Unix(0, 0)
	for _, name := range []string{identity.AccessTokenCookie, identity.RefreshTokenCookie} {
		cookie := sessionCookie(name, "", secure)
		cookie.Expires = expired
		c.Cookie(cookie)
	}
}
