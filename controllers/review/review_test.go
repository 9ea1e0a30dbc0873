package reviewController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	reviewRoutes "lms/routers/reviewRoutes"

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
	dsn := fmt.Sprintf("file:review_test_%d?mode=memory&cache=shared", dbCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func newApp() *fiber.App {
	app := fiber.New()
	reviewRoutes.SetupReviewRoutes(app)
	return app
}

// enrolledUser seeds a learner enrolled in the given course and returns a
// bearer token for them.
func enrolledUser(t *testing.T, db *gorm.DB, name string, courseID uint) (models.User, string) {
	t.Helper()

	user := models.User{Name: name, Email: fmt.Sprintf("%s%d@test.io", name, dbCounter), Role: models.RoleLearner}
	require.NoError(t, db.Create(&user).Error)

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: courseID, CompletedLessons: "[]"}
	require.NoError(t, db.Create(&enrollment).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, string(user.Role), user.Email)
	require.NoError(t, err)
	return user, token
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

func seedCourse(t *testing.T, db *gorm.DB) courseModels.Course {
	t.Helper()

	course := courseModels.Course{Title: "Reviewed Course", InstructorID: 999, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func TestCreateReviewUpdatesCourseRating(t *testing.T) {
	db := setupTest(t)
	course := seedCourse(t, db)
	_, tokenA := enrolledUser(t, db, "alice", course.ID)
	_, tokenB := enrolledUser(t, db, "bob", course.ID)
	app := newApp()

	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), tokenA, fiber.Map{
		"rating": 5, "comment": "Excellent pacing.",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), tokenB, fiber.Map{
		"rating": 4, "comment": "Solid, slightly fast.",
	})

	var stored courseModels.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.Equal(t, 2, stored.ReviewCount)
	assert.InDelta(t, 4.5, stored.Rating, 0.001)
}

func TestCreateReviewRequiresEnrollment(t *testing.T) {
	db := setupTest(t)
	course := seedCourse(t, db)

	outsider := models.User{Name: "Outsider", Email: "outsider@test.io", Role: models.RoleLearner}
	require.NoError(t, db.Create(&outsider).Error)
	token, err := middleware.GenerateJWT(outsider.ID, outsider.Name, string(outsider.Role), outsider.Email)
	require.NoError(t, err)

	app := newApp()
	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), token, fiber.Map{
		"rating": 5, "comment": "Sneaky.",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateReviewTwiceConflicts(t *testing.T) {
	db := setupTest(t)
	course := seedCourse(t, db)
	_, token := enrolledUser(t, db, "alice", course.ID)
	app := newApp()

	doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), token, fiber.Map{"rating": 5, "comment": "First."})
	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), token, fiber.Map{"rating": 1, "comment": "Second."})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	db := setupTest(t)
	course := seedCourse(t, db)
	_, token := enrolledUser(t, db, "alice", course.ID)
	app := newApp()

	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), token, fiber.Map{"rating": 6, "comment": "Too good."})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdateReviewRecomputesRating(t *testing.T) {
	db := setupTest(t)
	course := seedCourse(t, db)
	_, token := enrolledUser(t, db, "alice", course.ID)
	app := newApp()

	_, body := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), token, fiber.Map{"rating": 5, "comment": "Great."})
	reviewID := int(body["data"].(map[string]interface{})["ID"].(float64))

	resp, _ := doRequest(t, app, "PUT", fmt.Sprintf("/review/%d", reviewID), token, fiber.Map{"rating": 2, "comment": "Changed my mind."})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored courseModels.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.InDelta(t, 2.0, stored.Rating, 0.001)
}

func TestUpdateForeignReviewForbidden(t *testing.T) {
	db := setupTest(t)
	course := seedCourse(t, db)
	_, tokenA := enrolledUser(t, db, "alice", course.ID)
	_, tokenB := enrolledUser(t, db, "bob", course.ID)
	app := newApp()

	_, body := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), tokenA, fiber.Map{"rating": 5, "comment": "Mine."})
	reviewID := int(body["data"].(map[string]interface{})["ID"].(float64))

	resp, _ := doRequest(t, app, "PUT", fmt.Sprintf("/review/%d", reviewID), tokenB, fiber.Map{"rating": 1, "comment": "Not yours."})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteReviewDetachesFromAggregates(t *testing.T) {
	db := setupTest(t)
	course := seedCourse(t, db)
	_, token := enrolledUser(t, db, "alice", course.ID)
	app := newApp()

	_, body := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/review", course.ID), token, fiber.Map{"rating": 3, "comment": "Okay."})
	reviewID := int(body["data"].(map[string]interface{})["ID"].(float64))

	resp, _ := doRequest(t, app, "DELETE", fmt.Sprintf("/review/%d", reviewID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored courseModels.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.Equal(t, 0, stored.ReviewCount)
	assert.Equal(t, 0.0, stored.Rating)
}
