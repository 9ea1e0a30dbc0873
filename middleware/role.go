package middleware

import (
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that loads the authenticated user and
// admits the request only when the user's role is one of allowed. The switch
// over Role is exhaustive; an unknown role stored in the database is denied.
func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		switch user.Role {
		case models.RoleLearner, models.RoleInstructor, models.RoleAdmin:
			for _, role := range allowed {
				if user.Role == role {
					c.Locals("user", &user)
					return c.Next()
				}
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}
