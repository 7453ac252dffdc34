package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is where the session token travels by default; a bearer header
// is accepted as a fallback.
const CookieName = "token"

func extractToken(ctx *fiber.Ctx) string {
	if cookie := ctx.Cookies(CookieName); cookie != "" && cookie != "none" {
		return cookie
	}
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

// NewJwtMiddleware builds the auth guard around the configured signing
// secret, so verification always uses the same key the session was
// signed with.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := extractToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Not authorized to access this route"))
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Not authorized to access this route"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Not authorized to access this route"))
		}

		ctx.Locals("user_id", claims["user_id"])
		return ctx.Next()
	}
}
