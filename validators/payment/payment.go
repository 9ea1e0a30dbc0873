package paymentValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreatePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"course_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.CourseID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"course_id": "Course id is required!",
			})
		}

		c.Locals("validatedCreatePayment", reqData)
		return c.Next()
	}
}

func CapturePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OrderID  string `json:"order_id"`
			CourseID uint   `json:"course_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.OrderID) == "" {
			errors["order_id"] = "Order id is required!"
		}
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCapturePayment", reqData)
		return c.Next()
	}
}

func TransactionsQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			StudentID *uint  `query:"studentId"`
			CourseID  *uint  `query:"courseId"`
			StartDate string `query:"start_date"`
			EndDate   string `query:"end_date"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedTransactionsQuery", reqData)
		return c.Next()
	}
}
