package quizController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"
	quizRoutes "lms/routers/quizRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int

func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	dbCounter++
	dsn := fmt.Sprintf("file:quiz_test_%d?mode=memory&cache=shared", dbCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func newApp() *fiber.App {
	app := fiber.New()
	quizRoutes.SetupQuizRoutes(app)
	return app
}

// seedQuiz creates a learner enrolled in a course carrying one published
// quiz with three questions whose correct options are [0,2,1].
func seedQuiz(t *testing.T, db *gorm.DB, timeLimit, passingScore int) (models.User, quizModels.Quiz, string) {
	t.Helper()

	user := models.User{Name: "Learner", Email: fmt.Sprintf("learner%d@test.io", dbCounter), Role: models.RoleLearner}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Go Basics", InstructorID: 999, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, CompletedLessons: "[]"}
	require.NoError(t, db.Create(&enrollment).Error)

	quiz := quizModels.Quiz{CourseID: course.ID, Title: "Checkpoint", TimeLimit: timeLimit, PassingScore: passingScore, QuestionCount: 3, IsPublished: true}
	require.NoError(t, db.Create(&quiz).Error)

	for i, correct := range []int{0, 2, 1} {
		q := quizModels.Question{
			QuizID:        quiz.ID,
			OrderIndex:    i,
			Prompt:        fmt.Sprintf("Question %d", i+1),
			Options:       `["a","b","c"]`,
			CorrectOption: correct,
		}
		require.NoError(t, db.Create(&q).Error)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, string(user.Role), user.Email)
	require.NoError(t, err)

	return user, quiz, token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestStartAttemptInitializesSlate(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	resp, body := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, quizModels.AttemptInProgress, data["status"])
	assert.Equal(t, []interface{}{float64(-1), float64(-1), float64(-1)}, data["answers"])
	assert.NotNil(t, data["deadline"], "timed quiz carries a server-side deadline")
}

func TestStartAttemptUnlimitedHasNoDeadline(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 0, 70)
	app := newApp()

	resp, body := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Nil(t, data["deadline"])
}

func TestStartAttemptResumesOpenAttempt(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	_, first := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	_, second := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)

	firstID := first["data"].(map[string]interface{})["id"]
	secondID := second["data"].(map[string]interface{})["id"]
	assert.Equal(t, firstID, secondID, "a second start resumes the open attempt")

	var count int64
	db.Model(&quizModels.QuizAttempt{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStartAttemptRequiresEnrollment(t *testing.T) {
	db := setupTest(t)
	_, quiz, _ := seedQuiz(t, db, 10, 70)

	outsider := models.User{Name: "Outsider", Email: "outsider@test.io", Role: models.RoleLearner}
	require.NoError(t, db.Create(&outsider).Error)
	token, err := middleware.GenerateJWT(outsider.ID, outsider.Name, string(outsider.Role), outsider.Email)
	require.NoError(t, err)

	app := newApp()
	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStartAttemptRejectsEmptyQuiz(t *testing.T) {
	db := setupTest(t)
	user, _, token := seedQuiz(t, db, 10, 70)

	empty := quizModels.Quiz{CourseID: 0, Title: "Empty", IsPublished: true}
	// Attach to the learner's enrolled course
	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&enrollment).Error)
	empty.CourseID = enrollment.CourseID
	require.NoError(t, db.Create(&empty).Error)

	app := newApp()
	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", empty.ID), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAnswerAndSubmitScoresAttempt(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	_, started := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	attemptID := int(started["data"].(map[string]interface{})["id"].(float64))

	// Correct options are [0,2,1]; answer [0,2,0] for 2/3
	for i, opt := range []int{0, 2, 0} {
		resp, _ := doRequest(t, app, "PUT", fmt.Sprintf("/quiz/attempt/%d/answer", attemptID), token, fiber.Map{
			"question_index": i,
			"option_index":   opt,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doRequest(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", attemptID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(67), data["score"])
	assert.Equal(t, false, data["passed"])

	// The persisted attempt is terminal and immutable
	var attempt quizModels.QuizAttempt
	require.NoError(t, db.First(&attempt, attemptID).Error)
	assert.Equal(t, quizModels.AttemptCompleted, attempt.Status)
	assert.Equal(t, 67, attempt.Score)
	assert.False(t, attempt.Passed)
}

func TestSubmitAllCorrectPasses(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 100)
	app := newApp()

	_, started := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	attemptID := int(started["data"].(map[string]interface{})["id"].(float64))

	for i, opt := range []int{0, 2, 1} {
		doRequest(t, app, "PUT", fmt.Sprintf("/quiz/attempt/%d/answer", attemptID), token, fiber.Map{
			"question_index": i,
			"option_index":   opt,
		})
	}

	_, body := doRequest(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", attemptID), token, nil)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(100), data["score"])
	assert.Equal(t, true, data["passed"], "100 passes even a passing score of 100")
}

func TestSubmitUnansweredScoresZero(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	_, started := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	attemptID := int(started["data"].(map[string]interface{})["id"].(float64))

	_, body := doRequest(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", attemptID), token, nil)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["score"])
	assert.Equal(t, false, data["passed"])
}

func TestAnswerRejectsOptionBeyondQuestionRange(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	_, started := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	attemptID := int(started["data"].(map[string]interface{})["id"].(float64))

	// Each seeded question has three options; index 3 addresses none of them
	resp, _ := doRequest(t, app, "PUT", fmt.Sprintf("/quiz/attempt/%d/answer", attemptID), token, fiber.Map{
		"question_index": 0,
		"option_index":   3,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A question index past the quiz is rejected the same way
	resp, _ = doRequest(t, app, "PUT", fmt.Sprintf("/quiz/attempt/%d/answer", attemptID), token, fiber.Map{
		"question_index": 7,
		"option_index":   0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The slate is untouched
	var stored quizModels.QuizAttempt
	require.NoError(t, db.First(&stored, attemptID).Error)
	assert.Equal(t, []int{-1, -1, -1}, stored.AnswerSlate())
}

func TestSubmitTwiceConflicts(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	_, started := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	attemptID := int(started["data"].(map[string]interface{})["id"].(float64))

	doRequest(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", attemptID), token, nil)
	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", attemptID), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAnswerAfterDeadlineFinalizes(t *testing.T) {
	db := setupTest(t)
	user, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	// Attempt whose deadline already passed, with one correct answer
	past := time.Now().Add(-time.Minute)
	attempt := quizModels.QuizAttempt{
		UserID:    user.ID,
		QuizID:    quiz.ID,
		Answers:   "[0,-1,-1]",
		Status:    quizModels.AttemptInProgress,
		StartedAt: past.Add(-10 * time.Minute),
		Deadline:  &past,
	}
	require.NoError(t, db.Create(&attempt).Error)

	resp, body := doRequest(t, app, "PUT", fmt.Sprintf("/quiz/attempt/%d/answer", attempt.ID), token, fiber.Map{
		"question_index": 1,
		"option_index":   2,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The reply carries the decoded slate, same shape as every other
	// attempt response
	data := body["data"].(map[string]interface{})
	assert.Equal(t, quizModels.AttemptCompleted, data["status"])
	assert.Equal(t, []interface{}{float64(0), float64(-1), float64(-1)}, data["answers"])

	// Scored from the slate as it stood, the late answer never landed
	var stored quizModels.QuizAttempt
	require.NoError(t, db.First(&stored, attempt.ID).Error)
	assert.Equal(t, quizModels.AttemptCompleted, stored.Status)
	assert.Equal(t, 33, stored.Score)
	assert.Equal(t, []int{0, -1, -1}, stored.AnswerSlate())
}

func TestSchedulerFinalizesExpiredAttempts(t *testing.T) {
	db := setupTest(t)
	user, quiz, _ := seedQuiz(t, db, 10, 70)

	past := time.Now().Add(-2 * time.Minute)
	attempt := quizModels.QuizAttempt{
		UserID:    user.ID,
		QuizID:    quiz.ID,
		Answers:   "[0,2,1]",
		Status:    quizModels.AttemptInProgress,
		StartedAt: past.Add(-10 * time.Minute),
		Deadline:  &past,
	}
	require.NoError(t, db.Create(&attempt).Error)

	utils.FinalizeExpiredAttempts()

	var stored quizModels.QuizAttempt
	require.NoError(t, db.First(&stored, attempt.ID).Error)
	assert.Equal(t, quizModels.AttemptCompleted, stored.Status)
	assert.Equal(t, 100, stored.Score)
	assert.True(t, stored.Passed)
	require.NotNil(t, stored.CompletedAt)
	assert.WithinDuration(t, past, *stored.CompletedAt, time.Second, "completion is back-dated to the deadline")
}

func TestAnswerOtherUsersAttemptForbidden(t *testing.T) {
	db := setupTest(t)
	user, quiz, _ := seedQuiz(t, db, 10, 70)

	attempt := quizModels.QuizAttempt{
		UserID:    user.ID,
		QuizID:    quiz.ID,
		Answers:   "[-1,-1,-1]",
		Status:    quizModels.AttemptInProgress,
		StartedAt: time.Now(),
	}
	require.NoError(t, db.Create(&attempt).Error)

	other := models.User{Name: "Other", Email: "other@test.io", Role: models.RoleLearner}
	require.NoError(t, db.Create(&other).Error)
	token, err := middleware.GenerateJWT(other.ID, other.Name, string(other.Role), other.Email)
	require.NoError(t, err)

	app := newApp()
	resp, _ := doRequest(t, app, "PUT", fmt.Sprintf("/quiz/attempt/%d/answer", attempt.ID), token, fiber.Map{
		"question_index": 0,
		"option_index":   0,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetAttemptReviewAfterCompletion(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	_, started := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/attempt/start", quiz.ID), token, nil)
	attemptID := int(started["data"].(map[string]interface{})["id"].(float64))

	doRequest(t, app, "PUT", fmt.Sprintf("/quiz/attempt/%d/answer", attemptID), token, fiber.Map{
		"question_index": 0,
		"option_index":   0,
	})
	doRequest(t, app, "POST", fmt.Sprintf("/quiz/attempt/%d/submit", attemptID), token, nil)

	resp, body := doRequest(t, app, "GET", fmt.Sprintf("/quiz/attempt/%d", attemptID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	review := body["data"].(map[string]interface{})["review"].([]interface{})
	assert.Len(t, review, 3)

	first := review[0].(map[string]interface{})
	assert.Equal(t, float64(0), first["correct_option"])
	assert.Equal(t, true, first["is_correct"])
}
