package quiz

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	AttemptInProgress = "IN_PROGRESS"
	AttemptCompleted  = "COMPLETED"

	// Unanswered marks a slate slot with no selection. It is out of range
	// for every option list, so it never matches a correct option.
	Unanswered = -1
)

// QuizAttempt records one pass through a quiz. The answer slate is a JSON
// int array sized to the question count. Once Status is COMPLETED the record
// is never mutated again.
type QuizAttempt struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	QuizID      uint       `json:"quiz_id" gorm:"not null;index"`
	Answers     string     `json:"answers" gorm:"type:text;not null"` // JSON array, -1 = unanswered
	Score       int        `json:"score" gorm:"default:0"`            // percent
	Passed      bool       `json:"passed" gorm:"default:false"`
	Status      string     `json:"status" gorm:"default:'IN_PROGRESS'"`
	StartedAt   time.Time  `json:"started_at"`
	Deadline    *time.Time `json:"deadline"` // nil when the quiz has no time limit
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}

// NewAnswerSlate returns a slate of n slots, all unanswered.
func NewAnswerSlate(n int) []int {
	slate := make([]int, n)
	for i := range slate {
		slate[i] = Unanswered
	}
	return slate
}

// AnswerSlate decodes the attempt's slate.
func (a *QuizAttempt) AnswerSlate() []int {
	var slate []int
	if err := json.Unmarshal([]byte(a.Answers), &slate); err != nil {
		return []int{}
	}
	return slate
}

// SetAnswer overwrites one slot in the slate. Reselecting an option for the
// same question only changes that slot.
func (a *QuizAttempt) SetAnswer(questionIndex, optionIndex int) bool {
	slate := a.AnswerSlate()
	if questionIndex < 0 || questionIndex >= len(slate) {
		return false
	}
	slate[questionIndex] = optionIndex
	encoded, _ := json.Marshal(slate)
	a.Answers = string(encoded)
	return true
}

// Expired reports whether the attempt's deadline has passed.
func (a *QuizAttempt) Expired(at time.Time) bool {
	return a.Deadline != nil && at.After(*a.Deadline)
}

// ScoreSlate computes the percentage score of a slate against the correct
// option indexes: one point per matching slot, rounded to a whole percent.
func ScoreSlate(slate, correct []int) int {
	if len(correct) == 0 {
		return 0
	}
	matches := 0
	for i, want := range correct {
		if i < len(slate) && slate[i] == want {
			matches++
		}
	}
	return int(math.Round(100 * float64(matches) / float64(len(correct))))
}

// Finalize scores the attempt from its current slate and moves it to the
// terminal COMPLETED state.
func (a *QuizAttempt) Finalize(correct []int, passingScore int, at time.Time) {
	a.Score = ScoreSlate(a.AnswerSlate(), correct)
	a.Passed = a.Score >= passingScore
	a.Status = AttemptCompleted
	a.CompletedAt = &at
}
