package models

import "gorm.io/gorm"

// Review is one rating+comment per (user, course) pair, gated by enrollment.
type Review struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"not null;index"`
	CourseID  uint   `json:"course_id" gorm:"not null;index"`
	Rating    int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1–5 rating
	Comment   string `json:"comment" gorm:"type:text;default:''"`
	IsDeleted bool   `gorm:"default:false"`
}
