package course

import "gorm.io/gorm"

// Course represents a catalog entry owned by one instructor. LessonCount,
// Duration, Rating, ReviewCount and EnrollmentCount are denormalized and
// updated inside the same transaction as the mutation that changes them.
type Course struct {
	gorm.Model
	Title           string  `json:"title" gorm:"not null"`
	Description     string  `json:"description" gorm:"type:text;default:''"`
	Tags            string  `json:"tags" gorm:"default:''"` // comma-joined
	Category        string  `json:"category" gorm:"default:''"`
	Price           uint    `json:"price" gorm:"default:0"` // smallest currency unit
	Currency        string  `json:"currency" gorm:"default:'USD'"`
	InstructorID    uint    `json:"instructor_id" gorm:"not null;index"`
	LessonCount     int     `json:"lesson_count" gorm:"default:0"`
	Duration        int     `json:"duration" gorm:"default:0"` // total lesson minutes
	Rating          float64 `json:"rating" gorm:"default:0"`   // average review rating
	ReviewCount     int     `json:"review_count" gorm:"default:0"`
	EnrollmentCount int     `json:"enrollment_count" gorm:"default:0"`
	ThumbnailURL    string  `json:"thumbnail_url" gorm:"default:''"`
	IsPublished     bool    `json:"is_published" gorm:"default:false"`
	IsDeleted       bool    `gorm:"default:false"`
}
