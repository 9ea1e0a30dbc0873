package blogRoutes

import (
	controllers "lms/controllers/blog"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/blog"

	"github.com/gofiber/fiber/v2"
)

// SetupBlogRoutes sets up blog routes
func SetupBlogRoutes(app *fiber.App) {
	blogGroup := app.Group("/blog")

	blogGroup.Get("/list", validators.PostList(), controllers.GetAllPosts)
	blogGroup.Get("/post/:slug", controllers.GetPostBySlug)

	blogGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CreatePost(), controllers.CreatePost)
	blogGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.PostID(), validators.UpdatePost(), controllers.UpdatePost)
	blogGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.PostID(), controllers.DeletePost)
}
