package bookRoutes

import (
	controllers "lms/controllers/book"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/book"

	"github.com/gofiber/fiber/v2"
)

// SetupBookRoutes sets up library routes
func SetupBookRoutes(app *fiber.App) {
	bookGroup := app.Group("/book")

	bookGroup.Get("/list", middleware.JWTMiddleware, validators.BookList(), controllers.GetAllBooks)
	bookGroup.Get("/:id", middleware.JWTMiddleware, validators.BookID(), controllers.GetBookDetails)

	bookGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CreateBook(), controllers.CreateBook)
	bookGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.BookID(), validators.UpdateBook(), controllers.UpdateBook)
	bookGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.BookID(), controllers.DeleteBook)
	bookGroup.Post("/:id/cover", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.BookID(), controllers.UploadBookCover)
}
