package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up catalog, lesson, enrollment and progress routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (published courses)
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:id/lessons", middleware.JWTMiddleware, validators.CourseID(), controllers.GetLessons)

	// Instructor course management
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CourseID(), controllers.DeleteCourse)

	// Lessons
	courseGroup.Post("/:id/lesson", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CourseID(), validators.CreateLesson(), controllers.CreateLesson)
	courseGroup.Put("/:course_id/lesson/:lesson_id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CourseAndLessonID(), validators.UpdateLesson(), controllers.UpdateLesson)
	courseGroup.Delete("/:course_id/lesson/:lesson_id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CourseAndLessonID(), controllers.DeleteLesson)

	// Enrollment and progress
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.CourseAndLessonID(), controllers.MarkLessonComplete)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseProgress)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, validators.EnrollmentList(), controllers.GetEnrollments)
}
