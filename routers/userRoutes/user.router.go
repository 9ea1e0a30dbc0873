package userRoutes

import (
	controllers "lms/controllers/user"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile and admin user management routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, controllers.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, validators.UpdateProfile(), controllers.UpdateProfile)

	adminGroup := app.Group("/admin")
	adminGroup.Get("/users", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.UserList(), controllers.ListUsers)
	adminGroup.Put("/users/:id/role", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.ChangeRole(), controllers.ChangeRole)
}
