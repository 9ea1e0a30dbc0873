package utils

import (
	"log"
	"time"

	"lms/database"
	quizModels "lms/models/quiz"

	"github.com/robfig/cron/v3"
)

// InitializeAttemptScheduler starts the sweeper that finalizes quiz attempts
// whose server-side deadline has passed without a submission.
func InitializeAttemptScheduler() {
	log.Println("[ATTEMPT-SCHEDULER] Initializing attempt deadline scheduler...")

	c := cron.New()

	// Every minute: score and close expired in-progress attempts
	c.AddFunc("* * * * *", func() {
		FinalizeExpiredAttempts()
	})

	c.Start()
	log.Println("[ATTEMPT-SCHEDULER] Attempt deadline scheduler started - runs every minute")
}

// FinalizeExpiredAttempts scores every in-progress attempt past its deadline
// from whatever answer slate exists and moves it to the terminal state.
func FinalizeExpiredAttempts() {
	db := database.Database.Db
	now := time.Now()

	var expired []quizModels.QuizAttempt
	if err := db.
		Where("status = ? AND is_deleted = ? AND deadline IS NOT NULL AND deadline < ?", quizModels.AttemptInProgress, false, now).
		Find(&expired).Error; err != nil {
		log.Printf("[ATTEMPT-SCHEDULER] Error fetching expired attempts: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	log.Printf("[ATTEMPT-SCHEDULER] Finalizing %d expired attempts", len(expired))

	for i := range expired {
		attempt := &expired[i]

		var quiz quizModels.Quiz
		if err := db.Where("id = ?", attempt.QuizID).First(&quiz).Error; err != nil {
			log.Printf("[ATTEMPT-SCHEDULER] Quiz %d missing for attempt %d: %v", attempt.QuizID, attempt.ID, err)
			continue
		}

		correct, err := CorrectOptionIndexes(attempt.QuizID)
		if err != nil {
			log.Printf("[ATTEMPT-SCHEDULER] Error loading questions for quiz %d: %v", attempt.QuizID, err)
			continue
		}

		// Score as of the deadline, not the sweep time
		attempt.Finalize(correct, quiz.PassingScore, *attempt.Deadline)

		if err := db.Save(attempt).Error; err != nil {
			log.Printf("[ATTEMPT-SCHEDULER] Error finalizing attempt %d: %v", attempt.ID, err)
		}
	}
}

// CorrectOptionIndexes returns the correct option index of each question of a
// quiz in question order.
func CorrectOptionIndexes(quizID uint) ([]int, error) {
	var questions []quizModels.Question
	if err := database.Database.Db.
		Where("quiz_id = ? AND is_deleted = ?", quizID, false).
		Order("order_index asc").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	correct := make([]int, len(questions))
	for i, q := range questions {
		correct[i] = q.CorrectOption
	}
	return correct, nil
}
