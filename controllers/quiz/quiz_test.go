package quizController_test

import (
	"fmt"
	"net/http"
	"testing"

	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedInstructorWithCourse(t *testing.T, db *gorm.DB) (models.User, courseModels.Course, string) {
	t.Helper()

	instructor := models.User{Name: "Instructor", Email: fmt.Sprintf("instructor%d@test.io", dbCounter), Role: models.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)

	course := courseModels.Course{Title: "Go Basics", InstructorID: instructor.ID, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	token, err := middleware.GenerateJWT(instructor.ID, instructor.Name, string(instructor.Role), instructor.Email)
	require.NoError(t, err)
	return instructor, course, token
}

func validQuizPayload() fiber.Map {
	return fiber.Map{
		"title":         "Checkpoint",
		"time_limit":    15,
		"passing_score": 70,
		"questions": []fiber.Map{
			{"prompt": "What does := do?", "options": []string{"declare+assign", "compare", "swap"}, "correct_option": 0},
			{"prompt": "Zero value of a slice?", "options": []string{"empty slice", "nil", "panic"}, "correct_option": 1, "explanation": "A declared slice is nil until initialized."},
		},
	}
}

func TestCreateQuizPersistsQuestions(t *testing.T) {
	db := setupTest(t)
	_, course, token := seedInstructorWithCourse(t, db)
	app := newApp()

	resp, body := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/quiz", course.ID), token, validQuizPayload())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["question_count"])

	var questions []quizModels.Question
	require.NoError(t, db.Where("quiz_id = ?", uint(data["ID"].(float64))).Order("order_index asc").Find(&questions).Error)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[1].CorrectOption)
	assert.Equal(t, []string{"empty slice", "nil", "panic"}, questions[1].OptionList())
}

func TestCreateQuizRequiresAtLeastOneQuestion(t *testing.T) {
	db := setupTest(t)
	_, course, token := seedInstructorWithCourse(t, db)
	app := newApp()

	payload := validQuizPayload()
	payload["questions"] = []fiber.Map{}

	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/quiz", course.ID), token, payload)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var count int64
	db.Model(&quizModels.Quiz{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateQuizRejectsCorrectOptionOutOfRange(t *testing.T) {
	db := setupTest(t)
	_, course, token := seedInstructorWithCourse(t, db)
	app := newApp()

	payload := validQuizPayload()
	payload["questions"] = []fiber.Map{
		{"prompt": "Broken", "options": []string{"a", "b"}, "correct_option": 2},
	}

	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/quiz", course.ID), token, payload)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateQuizOnForeignCourseForbidden(t *testing.T) {
	db := setupTest(t)
	_, course, _ := seedInstructorWithCourse(t, db)

	other := models.User{Name: "Rival", Email: "rival@test.io", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&other).Error)
	token, err := middleware.GenerateJWT(other.ID, other.Name, string(other.Role), other.Email)
	require.NoError(t, err)

	app := newApp()
	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/quiz", course.ID), token, validQuizPayload())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetQuizHidesCorrectOptions(t *testing.T) {
	db := setupTest(t)
	_, quiz, token := seedQuiz(t, db, 10, 70)
	app := newApp()

	resp, body := doRequest(t, app, "GET", fmt.Sprintf("/quiz/%d", quiz.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	questions := body["data"].(map[string]interface{})["questions"].([]interface{})
	require.Len(t, questions, 3)
	for _, q := range questions {
		fields := q.(map[string]interface{})
		assert.NotContains(t, fields, "correct_option")
		assert.NotContains(t, fields, "explanation")
		assert.NotEmpty(t, fields["options"])
	}
}

func TestUpdateQuizPublishes(t *testing.T) {
	db := setupTest(t)
	_, course, token := seedInstructorWithCourse(t, db)

	quiz := quizModels.Quiz{CourseID: course.ID, Title: "Draft", QuestionCount: 1}
	require.NoError(t, db.Create(&quiz).Error)

	app := newApp()
	resp, _ := doRequest(t, app, "PUT", fmt.Sprintf("/quiz/%d", quiz.ID), token, fiber.Map{"is_published": true, "passing_score": 80})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored quizModels.Quiz
	require.NoError(t, db.First(&stored, quiz.ID).Error)
	assert.True(t, stored.IsPublished)
	assert.Equal(t, 80, stored.PassingScore)
}

func TestDeleteQuizUnpublishes(t *testing.T) {
	db := setupTest(t)
	_, course, token := seedInstructorWithCourse(t, db)

	quiz := quizModels.Quiz{CourseID: course.ID, Title: "Doomed", QuestionCount: 1, IsPublished: true}
	require.NoError(t, db.Create(&quiz).Error)

	app := newApp()
	resp, _ := doRequest(t, app, "DELETE", fmt.Sprintf("/quiz/%d", quiz.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored quizModels.Quiz
	require.NoError(t, db.First(&stored, quiz.ID).Error)
	assert.True(t, stored.IsDeleted)
	assert.False(t, stored.IsPublished)
}
