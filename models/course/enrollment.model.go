package course

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/gorm"
)

// Enrollment links a learner to a course and tracks progress. The completed
// lesson set is stored as a JSON array of lesson IDs; Progress holds the
// rounded completion percentage and never decreases.
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"index;not null"`
	CourseID         uint       `json:"course_id" gorm:"index;not null"`
	Progress         int        `json:"progress" gorm:"default:0"` // 0-100
	CompletedLessons string     `json:"completed_lessons" gorm:"type:text;default:'[]'"`
	LessonsDone      int        `json:"lessons_done" gorm:"default:0"`
	IsCompleted      bool       `json:"is_completed" gorm:"default:false"`
	StartedAt        time.Time  `json:"started_at"`
	LastAccessedAt   time.Time  `json:"last_accessed_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	IsDeleted        bool       `gorm:"default:false"`
}

// CompletedLessonIDs decodes the completed lesson set. A corrupt or empty
// column decodes as an empty set.
func (e *Enrollment) CompletedLessonIDs() []uint {
	var ids []uint
	if err := json.Unmarshal([]byte(e.CompletedLessons), &ids); err != nil {
		return []uint{}
	}
	return ids
}

// HasCompletedLesson reports whether lessonID is already in the completed set.
func (e *Enrollment) HasCompletedLesson(lessonID uint) bool {
	for _, id := range e.CompletedLessonIDs() {
		if id == lessonID {
			return true
		}
	}
	return false
}

// MarkLessonComplete appends lessonID to the completed set and recomputes
// Progress against lessonCount. Returns false without mutating anything when
// the lesson is already completed.
func (e *Enrollment) MarkLessonComplete(lessonID uint, lessonCount int) bool {
	if e.HasCompletedLesson(lessonID) {
		return false
	}

	ids := append(e.CompletedLessonIDs(), lessonID)
	encoded, _ := json.Marshal(ids)

	e.CompletedLessons = string(encoded)
	e.LessonsDone = len(ids)
	e.Progress = ProgressPercent(len(ids), lessonCount)
	e.LastAccessedAt = time.Now()
	return true
}

// ProgressPercent computes round(100 * done / total), capped at 100. Zero
// total yields 0. The cap covers a completed lesson being deleted later,
// which shrinks total below the completed count.
func ProgressPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	percent := int(math.Round(100 * float64(done) / float64(total)))
	if percent > 100 {
		return 100
	}
	return percent
}
