package quiz

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Quiz is an ordered set of questions attached to a course. A quiz always
// has at least one question; creation enforces this.
type Quiz struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"not null;index"`
	Title         string `json:"title" gorm:"not null"`
	TimeLimit     int    `json:"time_limit" gorm:"default:0"`      // minutes, 0 = unlimited
	PassingScore  int    `json:"passing_score" gorm:"default:70"`  // percent threshold
	QuestionCount int    `json:"question_count" gorm:"default:0"`
	IsPublished   bool   `json:"is_published" gorm:"default:false"`
	IsDeleted     bool   `gorm:"default:false"`
}

// Question is one multiple-choice question. Options is a JSON string array;
// CorrectOption indexes into it.
type Question struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id" gorm:"not null;index"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
	Prompt        string `json:"prompt" gorm:"type:text;not null"`
	Options       string `json:"options" gorm:"type:text;not null"` // JSON array of option texts
	CorrectOption int    `json:"correct_option" gorm:"default:0"`
	Explanation   string `json:"explanation" gorm:"type:text;default:''"`
	IsDeleted     bool   `gorm:"default:false"`
}

// OptionList decodes the option texts.
func (q *Question) OptionList() []string {
	var opts []string
	if err := json.Unmarshal([]byte(q.Options), &opts); err != nil {
		return []string{}
	}
	return opts
}
