package reviewRoutes

import (
	controllers "lms/controllers/review"
	"lms/middleware"
	courseValidators "lms/validators/course"
	validators "lms/validators/review"

	"github.com/gofiber/fiber/v2"
)

// SetupReviewRoutes sets up course review routes
func SetupReviewRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, courseValidators.CourseID(), validators.Review(), controllers.CreateReview)
	courseGroup.Get("/:id/reviews", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.GetCourseReviews)

	reviewGroup := app.Group("/review")
	reviewGroup.Put("/:id", middleware.JWTMiddleware, validators.ReviewID(), validators.Review(), controllers.UpdateReview)
	reviewGroup.Delete("/:id", middleware.JWTMiddleware, validators.ReviewID(), controllers.DeleteReview)
}
