package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// AdminAuth guards the admin API with a static bearer token.
type AdminAuth struct {
	token string
}

// NewAdminAuth creates a new admin auth middleware instance.
func NewAdminAuth(token string) *AdminAuth {
	return &AdminAuth{token: token}
}

// RequireToken rejects requests without the configured bearer token.
func (m *AdminAuth) RequireToken(c fiber.Ctx) error {
	if m.token == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "error": "not found"})
	}

	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(m.token)) != 1 {
		c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="admin"`)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "error": "unauthorized"})
	}

	return c.Next()
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
