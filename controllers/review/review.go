package reviewController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// recomputeCourseRating refreshes the course's denormalized Rating and
// ReviewCount inside the caller's transaction.
func recomputeCourseRating(tx *gorm.DB, courseID uint) error {
	var reviews []models.Review
	if err := tx.Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&reviews).Error; err != nil {
		return err
	}

	var course courseModels.Course
	if err := tx.Where("id = ?", courseID).First(&course).Error; err != nil {
		return err
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}

	course.ReviewCount = len(reviews)
	if len(reviews) > 0 {
		course.Rating = float64(total) / float64(len(reviews))
	} else {
		course.Rating = 0
	}

	return tx.Save(&course).Error
}

// CreateReview adds one rating+comment per (user, course) pair. Reviewing
// requires enrollment.
func CreateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only enrolled users can review this course!", nil)
	}

	var existing models.Review
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	}

	reqData, ok := c.Locals("validatedReview").(*struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	review := models.Review{
		UserID:   userID,
		CourseID: uint(courseID),
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create review!", nil)
	}
	if err := recomputeCourseRating(tx, uint(courseID)); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course rating!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review created!", review)
}

func GetCourseReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var reviews []models.Review
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", reviews)
}

// UpdateReview mutates the author's own review only.
func UpdateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reviewID := c.Locals("reviewID").(int)

	var review models.Review
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reviewID, false).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}

	if review.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit your own review!", nil)
	}

	reqData, ok := c.Locals("validatedReview").(*struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	review.Rating = reqData.Rating
	review.Comment = reqData.Comment

	tx := database.Database.Db.Begin()
	if err := tx.Save(&review).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
	}
	if err := recomputeCourseRating(tx, review.CourseID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course rating!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated!", review)
}

// DeleteReview removes the author's own review and detaches it from the
// course aggregates.
func DeleteReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reviewID := c.Locals("reviewID").(int)

	var review models.Review
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reviewID, false).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}

	if review.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own review!", nil)
	}

	review.IsDeleted = true

	tx := database.Database.Db.Begin()
	if err := tx.Save(&review).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}
	if err := recomputeCourseRating(tx, review.CourseID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course rating!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted!", nil)
}
