package paymentRoutes

import (
	controllers "lms/controllers/payment"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up the two-phase payment flow and the ledger query
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/create-payment", middleware.JWTMiddleware, validators.CreatePayment(), controllers.CreatePayment)
	paymentGroup.Post("/capture-payment", middleware.JWTMiddleware, validators.CapturePayment(), controllers.CapturePayment)
	paymentGroup.Get("/transactions", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.TransactionsQuery(), controllers.GetTransactions)
}
