package authRoutes

import (
	controllers "lms/controllers/auth"
	"lms/middleware"
	validators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration, login, provider session exchange and
// token verification routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", validators.Signup(), controllers.Signup)
	authGroup.Post("/login", validators.Login(), controllers.Login)

	// External identity provider bridge
	authGroup.Post("/session", validators.Session(), controllers.ExchangeSession)
	authGroup.Get("/verify", middleware.JWTMiddleware, controllers.Verify)
}
