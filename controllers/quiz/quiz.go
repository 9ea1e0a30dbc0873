package quizController

import (
	"encoding/json"
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"

	"github.com/gofiber/fiber/v2"
)

// QuestionInput is the request shape for one question.
type QuestionInput struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// QuizInput is the request shape for quiz creation. A quiz is created with
// its full question list; a quiz without questions is rejected up front so
// scoring never divides by zero.
type QuizInput struct {
	Title        string          `json:"title"`
	TimeLimit    int             `json:"time_limit"`
	PassingScore int             `json:"passing_score"`
	Questions    []QuestionInput `json:"questions"`
}

func loadOwnedQuizCourse(courseID int, user *models.User) (*courseModels.Course, int, string) {
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, fiber.StatusNotFound, "Course not found!"
	}

	switch user.Role {
	case models.RoleAdmin:
		return &course, 0, ""
	case models.RoleInstructor:
		if course.InstructorID == user.ID {
			return &course, 0, ""
		}
		return nil, fiber.StatusForbidden, "You do not own this course!"
	case models.RoleLearner:
		return nil, fiber.StatusForbidden, "Learners cannot modify quizzes!"
	}
	return nil, fiber.StatusForbidden, "You do not have permission to modify this quiz!"
}

func CreateQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	if course, status, msg := loadOwnedQuizCourse(courseID, user); course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz := quizModels.Quiz{
		CourseID:      uint(courseID),
		Title:         reqData.Title,
		TimeLimit:     reqData.TimeLimit,
		PassingScore:  reqData.PassingScore,
		QuestionCount: len(reqData.Questions),
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	for i, q := range reqData.Questions {
		options, _ := json.Marshal(q.Options)
		question := quizModels.Question{
			QuizID:        quiz.ID,
			OrderIndex:    i,
			Prompt:        q.Prompt,
			Options:       string(options),
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz questions!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz created!", quiz)
}

func ListCourseQuizzes(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var quizzes []quizModels.Quiz
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("created_at asc").
		Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched!", quizzes)
}

// GetQuiz returns a quiz with its questions. Correct options and
// explanations are stripped from the learner view; they become visible
// through a completed attempt instead.
func GetQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []quizModels.Question
	database.Database.Db.
		Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Order("order_index asc").
		Find(&questions)

	type questionView struct {
		Index   int      `json:"index"`
		Prompt  string   `json:"prompt"`
		Options []string `json:"options"`
	}

	views := make([]questionView, len(questions))
	for i, q := range questions {
		views[i] = questionView{
			Index:   q.OrderIndex,
			Prompt:  q.Prompt,
			Options: q.OptionList(),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched!", fiber.Map{
		"quiz":      quiz,
		"questions": views,
	})
}

func UpdateQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if course, status, msg := loadOwnedQuizCourse(int(quiz.CourseID), user); course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	reqData, ok := c.Locals("validatedQuizUpdate").(*struct {
		Title        *string `json:"title"`
		TimeLimit    *int    `json:"time_limit"`
		PassingScore *int    `json:"passing_score"`
		IsPublished  *bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		quiz.Title = *reqData.Title
	}
	if reqData.TimeLimit != nil {
		quiz.TimeLimit = *reqData.TimeLimit
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	}
	if reqData.IsPublished != nil {
		quiz.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated!", quiz)
}

func DeleteQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if course, status, msg := loadOwnedQuizCourse(int(quiz.CourseID), user); course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	quiz.IsDeleted = true
	quiz.IsPublished = false
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted!", nil)
}
