package quizValidator

import (
	"strconv"
	"strings"

	quizController "lms/controllers/quiz"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizController.QuizInput)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.TimeLimit < 0 {
			errors["time_limit"] = "Time limit cannot be negative!"
		}
		if reqData.PassingScore < 0 || reqData.PassingScore > 100 {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}

		// A quiz must carry at least one question so scoring never divides
		// by zero.
		if len(reqData.Questions) == 0 {
			errors["questions"] = "A quiz requires at least one question!"
		}

		for i, q := range reqData.Questions {
			key := "questions[" + strconv.Itoa(i) + "]"
			if strings.TrimSpace(q.Prompt) == "" {
				errors[key+".prompt"] = "Prompt is required!"
			}
			if len(q.Options) < 2 {
				errors[key+".options"] = "A question requires at least two options!"
			}
			if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
				errors[key+".correct_option"] = "Correct option index is out of range!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        *string `json:"title"`
			TimeLimit    *int    `json:"time_limit"`
			PassingScore *int    `json:"passing_score"`
			IsPublished  *bool   `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}
		if reqData.TimeLimit != nil && *reqData.TimeLimit < 0 {
			errors["time_limit"] = "Time limit cannot be negative!"
		}
		if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > 100) {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

// QuizID validates the :id route param.
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
		}

		c.Locals("quizID", id)
		return c.Next()
	}
}

// AttemptID validates the :id route param for attempt routes.
func AttemptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attempt id!", nil)
		}

		c.Locals("attemptID", id)
		return c.Next()
	}
}

func Answer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuestionIndex int `json:"question_index"`
			OptionIndex   int `json:"option_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuestionIndex < 0 {
			errors["question_index"] = "Question index cannot be negative!"
		}
		if reqData.OptionIndex < 0 {
			errors["option_index"] = "Option index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}
