package course

import "gorm.io/gorm"

// Lesson is an ordered child of a course.
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null"`
	Content     string `json:"content" gorm:"type:text;default:''"`
	VideoURL    string `json:"video_url" gorm:"default:''"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	Duration    int    `json:"duration" gorm:"default:0"` // minutes
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
