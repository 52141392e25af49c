package middleware

import (
	"github.com/gofiber/fiber/v2"

	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/utils/clock"
	"boxhub_backend/pkg/utils/jwt"
)

// RequireActiveMembership blocks members without a membership covering now.
// Coaches and admins train for free.
func RequireActiveMembership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		if claims.Role == string(model.RoleCoach) || claims.Role == string(model.RoleAdmin) {
			return c.Next()
		}

		now := clock.Now()

		var userSub model.UserSubscription
		if err := database.DB.Where("user_id = ? AND starts_at <= ? AND ends_at >= ?", claims.UserID, now, now).
			First(&userSub).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No active membership found",
			})
		}

		return c.Next()
	}
}
