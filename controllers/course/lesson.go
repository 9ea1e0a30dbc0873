package courseController

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateLesson appends a lesson to a course. The course's denormalized
// LessonCount and Duration move in the same transaction.
func CreateLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	course, status, msg := loadOwnedCourse(courseID, user)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		VideoURL   string `json:"video_url"`
		OrderIndex int    `json:"order_index"`
		Duration   int    `json:"duration"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson := courseModels.Lesson{
		CourseID:   uint(courseID),
		Title:      reqData.Title,
		Content:    reqData.Content,
		VideoURL:   reqData.VideoURL,
		OrderIndex: reqData.OrderIndex,
		Duration:   reqData.Duration,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&lesson).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	course.LessonCount++
	course.Duration += lesson.Duration
	if err := tx.Save(course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course totals!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson created!", lesson)
}

func GetLessons(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []courseModels.Lesson
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").
		Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched!", lessons)
}

// UpdateLesson mutates a lesson. A duration change applies the delta to the
// course's total duration in the same transaction.
func UpdateLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	course, status, msg := loadOwnedCourse(courseID, user)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedLessonUpdate").(*struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		VideoURL    *string `json:"video_url"`
		OrderIndex  *int    `json:"order_index"`
		Duration    *int    `json:"duration"`
		IsPublished *bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	durationDelta := 0
	if reqData.Duration != nil {
		durationDelta = *reqData.Duration - lesson.Duration
		lesson.Duration = *reqData.Duration
	}
	if reqData.Title != nil {
		lesson.Title = *reqData.Title
	}
	if reqData.Content != nil {
		lesson.Content = *reqData.Content
	}
	if reqData.VideoURL != nil {
		lesson.VideoURL = *reqData.VideoURL
	}
	if reqData.OrderIndex != nil {
		lesson.OrderIndex = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		lesson.IsPublished = *reqData.IsPublished
	}

	tx := database.Database.Db.Begin()
	if err := tx.Save(&lesson).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	if durationDelta != 0 {
		course.Duration += durationDelta
		if err := tx.Save(course).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course totals!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated!", lesson)
}

// DeleteLesson soft-deletes a lesson and decrements the course's LessonCount
// and Duration in the same transaction.
func DeleteLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	course, status, msg := loadOwnedCourse(courseID, user)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	lesson.IsDeleted = true

	tx := database.Database.Db.Begin()
	if err := tx.Save(&lesson).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	if course.LessonCount > 0 {
		course.LessonCount--
	}
	course.Duration -= lesson.Duration
	if course.Duration < 0 {
		course.Duration = 0
	}
	if err := tx.Save(course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course totals!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted!", nil)
}
