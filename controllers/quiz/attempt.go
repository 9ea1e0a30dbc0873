package quizController

import (
	"encoding/json"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// StartAttempt opens an in-progress attempt for the authenticated learner.
// The deadline is fixed server-side from the quiz time limit; a client
// cannot stretch it. At most one attempt per (user, quiz) is in progress:
// starting again returns the existing one.
func StartAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", quizID, false, true).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	// Attempting requires enrollment in the quiz's course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, quiz.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var questionCount int64
	database.Database.Db.Model(&quizModels.Question{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).Count(&questionCount)
	if questionCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Quiz has no questions!", nil)
	}

	// Resume an open attempt instead of stacking a second one
	var existing quizModels.QuizAttempt
	if err := database.Database.Db.Where("user_id = ? AND quiz_id = ? AND status = ? AND is_deleted = ?", userID, quizID, quizModels.AttemptInProgress, false).First(&existing).Error; err == nil {
		if finalized := finalizeIfExpired(&existing, &quiz); finalized {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Previous attempt time expired!", attemptView(&existing))
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt resumed!", attemptView(&existing))
	}

	now := time.Now()
	slate, _ := json.Marshal(quizModels.NewAnswerSlate(int(questionCount)))

	attempt := quizModels.QuizAttempt{
		UserID:    userID,
		QuizID:    uint(quizID),
		Answers:   string(slate),
		Status:    quizModels.AttemptInProgress,
		StartedAt: now,
	}
	if quiz.TimeLimit > 0 {
		deadline := now.Add(time.Duration(quiz.TimeLimit) * time.Minute)
		attempt.Deadline = &deadline
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		log.Printf("Error creating attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start attempt!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt started!", attemptView(&attempt))
}

// AnswerQuestion overwrites one slot in the attempt's answer slate.
// Reselecting changes only that slot; navigation is a client concern and
// never touches the slate.
func AnswerQuestion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(int)

	reqData, ok := c.Locals("validatedAnswer").(*struct {
		QuestionIndex int `json:"question_index"`
		OptionIndex   int `json:"option_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var attempt quizModels.QuizAttempt
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", attemptID, false).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if attempt.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This attempt belongs to another user!", nil)
	}

	if attempt.Status == quizModels.AttemptCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt is already completed!", nil)
	}

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ?", attempt.QuizID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	// A late answer does not reopen the window: the attempt is finalized
	// from the slate as it stood at the deadline.
	if finalizeIfExpired(&attempt, &quiz) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Time expired! Attempt has been submitted.", attemptView(&attempt))
	}

	// The selected option must exist on the addressed question, mirroring
	// the range check applied at quiz creation.
	var question quizModels.Question
	if err := database.Database.Db.Where("quiz_id = ? AND order_index = ? AND is_deleted = ?", attempt.QuizID, reqData.QuestionIndex, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question index out of range!", nil)
	}
	if reqData.OptionIndex >= len(question.OptionList()) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Option index out of range!", nil)
	}

	if !attempt.SetAnswer(reqData.QuestionIndex, reqData.OptionIndex) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question index out of range!", nil)
	}

	if err := database.Database.Db.Save(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record answer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer recorded!", attemptView(&attempt))
}

// SubmitAttempt scores the slate and moves the attempt to its terminal
// state. A submission after the deadline still scores whatever slate exists.
func SubmitAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt quizModels.QuizAttempt
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", attemptID, false).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if attempt.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This attempt belongs to another user!", nil)
	}

	if attempt.Status == quizModels.AttemptCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt is already completed!", attemptView(&attempt))
	}

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ?", attempt.QuizID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	correct, err := utils.CorrectOptionIndexes(attempt.QuizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to score attempt!", nil)
	}

	completedAt := time.Now()
	if attempt.Expired(completedAt) {
		completedAt = *attempt.Deadline
	}
	attempt.Finalize(correct, quiz.PassingScore, completedAt)

	if err := database.Database.Db.Save(&attempt).Error; err != nil {
		log.Printf("Error persisting attempt %d: %v", attempt.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted!", fiber.Map{
		"attempt": attemptView(&attempt),
		"score":   attempt.Score,
		"passed":  attempt.Passed,
	})
}

// GetAttempt returns an attempt. Completed attempts include the per-question
// review with correct options and explanations.
func GetAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt quizModels.QuizAttempt
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", attemptID, false).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if attempt.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This attempt belongs to another user!", nil)
	}

	if attempt.Status != quizModels.AttemptCompleted {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched!", attemptView(&attempt))
	}

	var questions []quizModels.Question
	database.Database.Db.
		Where("quiz_id = ? AND is_deleted = ?", attempt.QuizID, false).
		Order("order_index asc").
		Find(&questions)

	slate := attempt.AnswerSlate()

	type reviewItem struct {
		Prompt        string   `json:"prompt"`
		Options       []string `json:"options"`
		Selected      int      `json:"selected"`
		CorrectOption int      `json:"correct_option"`
		IsCorrect     bool     `json:"is_correct"`
		Explanation   string   `json:"explanation"`
	}

	review := make([]reviewItem, len(questions))
	for i, q := range questions {
		selected := quizModels.Unanswered
		if i < len(slate) {
			selected = slate[i]
		}
		review[i] = reviewItem{
			Prompt:        q.Prompt,
			Options:       q.OptionList(),
			Selected:      selected,
			CorrectOption: q.CorrectOption,
			IsCorrect:     selected == q.CorrectOption,
			Explanation:   q.Explanation,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched!", fiber.Map{
		"attempt": attemptView(&attempt),
		"review":  review,
	})
}

// ListMyAttempts returns the learner's attempts for one quiz, newest first.
func ListMyAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var attempts []quizModels.QuizAttempt
	if err := database.Database.Db.
		Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Order("created_at desc").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched!", attempts)
}

// finalizeIfExpired closes an attempt whose deadline passed, scoring the
// slate as of the deadline. Returns true when the attempt was finalized.
func finalizeIfExpired(attempt *quizModels.QuizAttempt, quiz *quizModels.Quiz) bool {
	if attempt.Status != quizModels.AttemptInProgress || !attempt.Expired(time.Now()) {
		return false
	}

	correct, err := utils.CorrectOptionIndexes(attempt.QuizID)
	if err != nil {
		log.Printf("Error loading questions for quiz %d: %v", attempt.QuizID, err)
		return false
	}

	attempt.Finalize(correct, quiz.PassingScore, *attempt.Deadline)
	if err := database.Database.Db.Save(attempt).Error; err != nil {
		log.Printf("Error finalizing expired attempt %d: %v", attempt.ID, err)
	}
	return true
}

// attemptView hides scoring fields while an attempt is still open.
func attemptView(attempt *quizModels.QuizAttempt) fiber.Map {
	view := fiber.Map{
		"id":         attempt.ID,
		"quiz_id":    attempt.QuizID,
		"answers":    attempt.AnswerSlate(),
		"status":     attempt.Status,
		"started_at": attempt.StartedAt,
		"deadline":   attempt.Deadline,
	}
	if attempt.Status == quizModels.AttemptCompleted {
		view["score"] = attempt.Score
		view["passed"] = attempt.Passed
		view["completed_at"] = attempt.CompletedAt
	}
	return view
}
