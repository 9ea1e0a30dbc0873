package models

import "gorm.io/gorm"

// Book is a library entry offered alongside courses.
type Book struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Author      string `json:"author" gorm:"default:''"`
	Description string `json:"description" gorm:"type:text;default:''"`
	Tags        string `json:"tags" gorm:"default:''"` // comma-joined
	CoverURL    string `json:"cover_url" gorm:"default:''"`
	FileURL     string `json:"file_url" gorm:"default:''"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
