package bookController

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateBook(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedBook").(*struct {
		Title       string `json:"title" validate:"required,min=2"`
		Author      string `json:"author"`
		Description string `json:"description"`
		Tags        string `json:"tags"`
		CoverURL    string `json:"cover_url" validate:"omitempty,url"`
		FileURL     string `json:"file_url" validate:"omitempty,url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	book := models.Book{
		Title:       reqData.Title,
		Author:      reqData.Author,
		Description: reqData.Description,
		Tags:        utils.JoinTags(utils.ParseTags(reqData.Tags)),
		CoverURL:    reqData.CoverURL,
		FileURL:     reqData.FileURL,
	}

	if err := database.Database.Db.Create(&book).Error; err != nil {
		log.Printf("Error creating book: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create book!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Book created!", book)
}

func GetAllBooks(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Book{}).Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	db.Count(&total)

	var books []models.Book
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&books).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch books!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Books fetched!", fiber.Map{
		"books": books,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetBookDetails(c *fiber.Ctx) error {
	bookID := c.Locals("bookID").(int)

	var book models.Book
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", bookID, false).First(&book).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Book not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Book fetched!", fiber.Map{
		"book": book,
		"tags": utils.ParseTags(book.Tags),
	})
}

func UpdateBook(c *fiber.Ctx) error {
	bookID := c.Locals("bookID").(int)

	var book models.Book
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", bookID, false).First(&book).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Book not found!", nil)
	}

	reqData, ok := c.Locals("validatedBookUpdate").(*struct {
		Title       *string `json:"title"`
		Author      *string `json:"author"`
		Description *string `json:"description"`
		Tags        *string `json:"tags"`
		CoverURL    *string `json:"cover_url"`
		FileURL     *string `json:"file_url"`
		IsPublished *bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		book.Title = *reqData.Title
	}
	if reqData.Author != nil {
		book.Author = *reqData.Author
	}
	if reqData.Description != nil {
		book.Description = *reqData.Description
	}
	if reqData.Tags != nil {
		book.Tags = utils.JoinTags(utils.ParseTags(*reqData.Tags))
	}
	if reqData.CoverURL != nil {
		book.CoverURL = *reqData.CoverURL
	}
	if reqData.FileURL != nil {
		book.FileURL = *reqData.FileURL
	}
	if reqData.IsPublished != nil {
		book.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&book).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update book!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Book updated!", book)
}

func DeleteBook(c *fiber.Ctx) error {
	bookID := c.Locals("bookID").(int)

	var book models.Book
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", bookID, false).First(&book).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Book not found!", nil)
	}

	book.IsDeleted = true
	book.IsPublished = false
	if err := database.Database.Db.Save(&book).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete book!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Book deleted!", nil)
}

// UploadBookCover stores a cover image and attaches its URL to the book.
func UploadBookCover(c *fiber.Ctx) error {
	bookID := c.Locals("bookID").(int)

	var book models.Book
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", bookID, false).First(&book).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Book not found!", nil)
	}

	file, err := c.FormFile("cover")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cover file is required!", nil)
	}

	path, err := utils.SaveUploadedFile(file, "./public/uploads")
	if err != nil {
		log.Printf("Error saving cover upload: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store cover!", nil)
	}

	book.CoverURL = utils.GetFileURL(path)
	if err := database.Database.Db.Save(&book).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update book!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cover uploaded!", book)
}
