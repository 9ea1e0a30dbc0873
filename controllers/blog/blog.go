package blogController

import (
	"log"
	"strings"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// slugify builds a URL slug from a title.
func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		}
		return -1
	}, slug)
	return strings.Trim(slug, "-")
}

func CreatePost(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedPost").(*struct {
		Title string `json:"title" validate:"required,min=3"`
		Body  string `json:"body" validate:"required,min=10"`
		Tags  string `json:"tags"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	slug := slugify(reqData.Title)
	if err := database.Database.Db.Where("slug = ? AND is_deleted = ?", slug, false).First(&models.BlogPost{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A post with this title already exists!", nil)
	}

	post := models.BlogPost{
		AuthorID: user.ID,
		Title:    reqData.Title,
		Slug:     slug,
		Body:     reqData.Body,
		Tags:     utils.JoinTags(utils.ParseTags(reqData.Tags)),
	}

	if err := database.Database.Db.Create(&post).Error; err != nil {
		log.Printf("Error creating blog post: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post created!", post)
}

func GetAllPosts(c *fiber.Ctx) error {
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

	db := database.Database.Db.Model(&models.BlogPost{}).Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	db.Count(&total)

	var posts []models.BlogPost
	if err := db.Offset(offset).Limit(limit).Order("published_at desc").Find(&posts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Posts fetched!", fiber.Map{
		"posts": posts,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetPostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var post models.BlogPost
	if err := database.Database.Db.Where("slug = ? AND is_deleted = ? AND is_published = ?", slug, false, true).First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}

	var author models.User
	database.Database.Db.Where("id = ? AND is_deleted = ?", post.AuthorID, false).First(&author)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post fetched!", fiber.Map{
		"post": post,
		"tags": utils.ParseTags(post.Tags),
		"author": fiber.Map{
			"id":   author.ID,
			"name": author.Name,
		},
	})
}

func UpdatePost(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	postID := c.Locals("postID").(int)

	var post models.BlogPost
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}

	if post.AuthorID != user.ID && user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit your own posts!", nil)
	}

	reqData, ok := c.Locals("validatedPostUpdate").(*struct {
		Title       *string `json:"title"`
		Body        *string `json:"body"`
		Tags        *string `json:"tags"`
		IsPublished *bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		post.Title = *reqData.Title
	}
	if reqData.Body != nil {
		post.Body = *reqData.Body
	}
	if reqData.Tags != nil {
		post.Tags = utils.JoinTags(utils.ParseTags(*reqData.Tags))
	}
	if reqData.IsPublished != nil {
		post.IsPublished = *reqData.IsPublished
		if post.IsPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	}

	if err := database.Database.Db.Save(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post updated!", post)
}

func DeletePost(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	postID := c.Locals("postID").(int)

	var post models.BlogPost
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}

	if post.AuthorID != user.ID && user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own posts!", nil)
	}

	post.IsDeleted = true
	post.IsPublished = false
	if err := database.Database.Db.Save(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post deleted!", nil)
}
