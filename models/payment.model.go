package models

import (
	"time"

	"gorm.io/gorm"
)

const PaymentStatusCompleted = "COMPLETED"

// Payment is a ledger row written only after a successful gateway capture.
// No row exists for a pending or failed capture.
type Payment struct {
	gorm.Model
	CourseID             uint      `json:"course_id" gorm:"not null;index"`
	StudentID            uint      `json:"student_id" gorm:"not null;index"`
	InstructorID         uint      `json:"instructor_id" gorm:"not null;index"`
	Amount               uint      `json:"amount" gorm:"not null"` // smallest currency unit
	Currency             string    `json:"currency" gorm:"default:'USD'"`
	GatewayOrderID       string    `json:"gateway_order_id" gorm:"uniqueIndex;not null"`
	GatewayTransactionID string    `json:"gateway_transaction_id" gorm:"not null"`
	Status               string    `json:"status" gorm:"not null"` // always COMPLETED
	CapturedAt           time.Time `json:"captured_at"`
	IsDeleted            bool      `gorm:"default:false"`
}
