package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/park-booking/internal/domain"
	apperrors "github.com/spec-kit/park-booking/pkg/util"
)

// RequireUser ensures a visitor whose account still exists is calling.
func RequireUser() fiber.Handler {
	return requireSubject("user required", func(p *Principal) bool {
		return p.SubjectType == domain.SubjectTypeUser && p.User != nil
	})
}

// RequireAdmin ensures the caller holds an administrator token.
func RequireAdmin() fiber.Handler {
	return requireSubject("admin required", func(p *Principal) bool {
		return p.SubjectType == domain.SubjectTypeAdmin
	})
}

func requireSubject(message string, allowed func(*Principal) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !allowed(principal) {
			return apperrors.NewForbidden(message)
		}
		return c.Next()
	}
}
