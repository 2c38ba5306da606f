package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const accessTokenLocal = "access_token"

// Guard rejects requests without a valid access token and attaches the resolved user
// to the request. The token is read from the accessToken cookie first, then from an
// "Authorization: Bearer" header.
func Guard(tokens *services.TokenService, users services.UserStore) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwt.SigningMethodHS256.Alg(),
			Key:    tokens.AccessSecret(),
		},
		ContextKey:  accessTokenLocal,
		Claims:      &services.Claims{},
		TokenLookup: "cookie:" + identity.AccessTokenCookie + ",header:Authorization",
		AuthScheme:  "Bearer",
		SuccessHandler: func(c *fiber.Ctx) error {
			return resolveUser(c, users)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "Unauthorized: invalid or expired token")
		},
	})
}

func resolveUser(c *fiber.Ctx, users services.UserStore) error {
	token, ok := c.Locals(accessTokenLocal).(*jwt.Token)
	if !ok || token == nil {
		return unauthorized(c, "Unauthorized: invalid or expired token")
	}
	claims, ok := token.Claims.(*services.Claims)
	if !ok || claims.Kind != services.KindAccess || claims.ExpiresAt == nil {
		return unauthorized(c, "Unauthorized: invalid or expired token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return unauthorized(c, "Unauthorized: invalid or expired token")
	}

	user, err := users.FindSanitizedByID(c.UserContext(), userID)
	if err != nil {
		slog.Error("guard user lookup failed", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if user == nil {
		return unauthorized(c, "Unauthorized: invalid access token")
	}

	identity.SetUser(c, user)
	return c.Next()
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
