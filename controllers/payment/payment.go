package paymentController

import (
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

// CreatePayment opens an order at the payment gateway for a course purchase.
// Nothing is persisted locally until a capture completes.
func CreatePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCreatePayment").(*struct {
		CourseID uint `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", reqData.CourseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Price == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is free, no payment required!", nil)
	}

	var instructor models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", course.InstructorID, false).First(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course instructor not found!", nil)
	}

	if instructor.PayoutAccount == "" {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Instructor has no payout account configured!", nil)
	}

	receipt := uuid.NewString()
	orderID, err := utils.CreateGatewayOrder(course.Price, course.Currency, instructor.PayoutAccount, receipt)
	if err != nil {
		log.Printf("Gateway order creation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment order created!", fiber.Map{
		"order_id": orderID,
		"amount":   course.Price,
		"currency": course.Currency,
		"receipt":  receipt,
	})
}

// CapturePayment finalizes an approved order. A ledger row is written only
// on a COMPLETED capture; any other status writes nothing and reports an
// error.
func CapturePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCapturePayment").(*struct {
		OrderID  string `json:"order_id"`
		CourseID uint   `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Duplicate capture guard
	var existing models.Payment
	if err := database.Database.Db.Where("gateway_order_id = ? AND is_deleted = ?", reqData.OrderID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already captured!", nil)
	}

	capture, err := utils.CaptureGatewayOrder(reqData.OrderID)
	if err != nil {
		log.Printf("Gateway capture failed for order %s: %v", reqData.OrderID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to capture payment!", nil)
	}

	if capture.Status != models.PaymentStatusCompleted {
		log.Printf("Capture for order %s returned status %s", reqData.OrderID, capture.Status)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment capture was not completed!", fiber.Map{
			"status": capture.Status,
		})
	}

	payment := models.Payment{
		CourseID:             course.ID,
		StudentID:            userID,
		InstructorID:         course.InstructorID,
		Amount:               capture.Amount,
		Currency:             course.Currency,
		GatewayOrderID:       reqData.OrderID,
		GatewayTransactionID: capture.TransactionID,
		Status:               models.PaymentStatusCompleted,
		CapturedAt:           time.Now(),
	}

	if err := database.Database.Db.Create(&payment).Error; err != nil {
		log.Printf("Error writing payment ledger row: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payment captured but ledger write failed!", nil)
	}

	go func(u models.User, title string, p models.Payment) {
		if err := utils.SendPaymentReceiptEmail(u.Email, u.Name, title, p.Amount, p.Currency, p.GatewayTransactionID); err != nil {
			log.Printf("Error sending payment receipt to %s: %v", u.Email, err)
		}
	}(user, course.Title, payment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment captured!", payment)
}

// GetTransactions lists ledger rows, filterable by student, course and date
// range. Date params cover whole days.
func GetTransactions(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTransactionsQuery").(*struct {
		StudentID *uint  `query:"studentId"`
		CourseID  *uint  `query:"courseId"`
		StartDate string `query:"start_date"`
		EndDate   string `query:"end_date"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.Model(&models.Payment{}).Where("is_deleted = ?", false)

	// Instructors see their own course revenue only; admins see everything
	if user.Role == models.RoleInstructor {
		db = db.Where("instructor_id = ?", user.ID)
	}

	if reqData.StudentID != nil {
		db = db.Where("student_id = ?", *reqData.StudentID)
	}
	if reqData.CourseID != nil {
		db = db.Where("course_id = ?", *reqData.CourseID)
	}

	if reqData.StartDate != "" {
		start, err := now.Parse(reqData.StartDate)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid start_date!", nil)
		}
		db = db.Where("captured_at >= ?", now.With(start).BeginningOfDay())
	}
	if reqData.EndDate != "" {
		end, err := now.Parse(reqData.EndDate)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid end_date!", nil)
		}
		db = db.Where("captured_at <= ?", now.With(end).EndOfDay())
	}

	var payments []models.Payment
	if err := db.Order("captured_at desc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched!", payments)
}
