package models

import (
	"time"

	"gorm.io/gorm"
)

type BlogPost struct {
	gorm.Model
	AuthorID    uint       `json:"author_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;not null"`
	Body        string     `json:"body" gorm:"type:text;default:''"`
	Tags        string     `json:"tags" gorm:"default:''"` // comma-joined
	IsPublished bool       `json:"is_published" gorm:"default:false"`
	PublishedAt *time.Time `json:"published_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
