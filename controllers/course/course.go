package courseController

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// loadOwnedCourse fetches a course that the user may mutate: its instructor,
// or an admin.
func loadOwnedCourse(courseID int, user *models.User) (*courseModels.Course, int, string) {
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
		return nil, fiber.StatusForbidden, "Learners cannot modify courses!"
	}
	return nil, fiber.StatusForbidden, "You do not have permission to modify this course!"
}

func CreateCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Tags         string `json:"tags"`
		Category     string `json:"category"`
		Price        uint   `json:"price"`
		Currency     string `json:"currency"`
		ThumbnailURL string `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	currency := reqData.Currency
	if currency == "" {
		currency = "USD"
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Tags:         utils.JoinTags(utils.ParseTags(reqData.Tags)),
		Category:     reqData.Category,
		Price:        reqData.Price,
		Currency:     currency,
		ThumbnailURL: reqData.ThumbnailURL,
		InstructorID: user.ID,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course created!", course)
}

func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page     *int   `json:"page"`
		Limit    *int   `json:"limit"`
		Category string `json:"category"`
		Tag      string `json:"tag"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND is_published = ?", false, true)

	if reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData.Tag != "" {
		db = db.Where("tags LIKE ?", "%"+reqData.Tag+"%")
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").
		Find(&lessons)

	var instructor models.User
	database.Database.Db.Where("id = ? AND is_deleted = ?", course.InstructorID, false).First(&instructor)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched!", fiber.Map{
		"course":  course,
		"lessons": lessons,
		"tags":    utils.ParseTags(course.Tags),
		"instructor": fiber.Map{
			"id":   instructor.ID,
			"name": instructor.Name,
			"bio":  instructor.Bio,
		},
	})
}

func UpdateCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	course, status, msg := loadOwnedCourse(courseID, user)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		Tags         *string `json:"tags"`
		Category     *string `json:"category"`
		Price        *uint   `json:"price"`
		ThumbnailURL *string `json:"thumbnail_url"`
		IsPublished  *bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Tags != nil {
		course.Tags = utils.JoinTags(utils.ParseTags(*reqData.Tags))
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.ThumbnailURL != nil {
		course.ThumbnailURL = *reqData.ThumbnailURL
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated!", course)
}

func DeleteCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	course, status, msg := loadOwnedCourse(courseID, user)
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	course.IsDeleted = true
	course.IsPublished = false
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted!", nil)
}
