package quizRoutes

import (
	controllers "lms/controllers/quiz"
	"lms/middleware"
	"lms/models"
	courseValidators "lms/validators/course"
	validators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz management and the attempt lifecycle routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	// Instructor quiz management (quizzes hang off a course)
	courseGroup := app.Group("/course")
	courseGroup.Post("/:id/quiz", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), courseValidators.CourseID(), validators.CreateQuiz(), controllers.CreateQuiz)
	courseGroup.Get("/:id/quizzes", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.ListCourseQuizzes)

	quizGroup.Get("/:id", middleware.JWTMiddleware, validators.QuizID(), controllers.GetQuiz)
	quizGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.QuizID(), validators.UpdateQuiz(), controllers.UpdateQuiz)
	quizGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.QuizID(), controllers.DeleteQuiz)

	// Attempt lifecycle
	quizGroup.Post("/:id/attempt/start", middleware.JWTMiddleware, validators.QuizID(), controllers.StartAttempt)
	quizGroup.Get("/:id/attempts", middleware.JWTMiddleware, validators.QuizID(), controllers.ListMyAttempts)

	attemptGroup := app.Group("/quiz/attempt")
	attemptGroup.Put("/:id/answer", middleware.JWTMiddleware, validators.AttemptID(), validators.Answer(), controllers.AnswerQuestion)
	attemptGroup.Post("/:id/submit", middleware.JWTMiddleware, validators.AttemptID(), controllers.SubmitAttempt)
	attemptGroup.Get("/:id", middleware.JWTMiddleware, validators.AttemptID(), controllers.GetAttempt)
}
