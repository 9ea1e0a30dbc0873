package bookValidator

import (
	"strconv"

	"lms/middleware"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateBook() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=2"`
			Author      string `json:"author"`
			Description string `json:"description"`
			Tags        string `json:"tags"`
			CoverURL    string `json:"cover_url" validate:"omitempty,url"`
			FileURL     string `json:"file_url" validate:"omitempty,url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := utils.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBook", reqData)
		return c.Next()
	}
}

func UpdateBook() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       *string `json:"title"`
			Author      *string `json:"author"`
			Description *string `json:"description"`
			Tags        *string `json:"tags"`
			CoverURL    *string `json:"cover_url"`
			FileURL     *string `json:"file_url"`
			IsPublished *bool   `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Title != nil && len(*reqData.Title) < 2 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"title": "Title must be at least 2 characters long!",
			})
		}

		c.Locals("validatedBookUpdate", reqData)
		return c.Next()
	}
}

func BookList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// BookID validates the :id route param.
func BookID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid book id!", nil)
		}

		c.Locals("bookID", id)
		return c.Next()
	}
}
