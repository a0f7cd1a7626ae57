// Package middleware provides HTTP middleware components for the application.
// Members authenticate with bearer tokens issued by the identity provider;
// the middleware here validates them and enforces chapter scoping.
package middleware

import (
	"log"
	"strings"

	"greekpay/internal/utils"
	"greekpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware handles JWT token validation and adds the member's claims to
// the request context.
type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// Handler validates the Bearer token on the request.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}

	claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), m.secret)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("claims", claims)
	c.Locals("memberID", claims.MemberID)

	return c.Next()
}

// RequireRole allows the request through when the caller has one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.Unauthorized(c)
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		log.Printf("Access denied: member %d has role %s", claims.MemberID, claims.Role)
		return response.Forbidden(c)
	}
}

// ChapterAccess restricts a /chapters/:id route to the caller's own chapter.
// Admins may access every chapter.
func ChapterAccess(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.Unauthorized(c)
		}

		chapterID, err := c.ParamsInt(param)
		if err != nil || chapterID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid chapter ID"})
		}

		if !claims.CanAccessChapter(uint(chapterID)) {
			log.Printf("Access denied: member %d of chapter %d requested chapter %d",
				claims.MemberID, claims.ChapterID, chapterID)
			return response.Forbidden(c)
		}

		c.Locals("chapterID", uint(chapterID))
		return c.Next()
	}
}
