package server

import (
	"io"
	"mime/multipart"
	"strings"

	"waypost/internal/models"
	"waypost/internal/service"
	"waypost/internal/upload"

	"github.com/gofiber/fiber/v2"
)

type updatePostRequest struct {
	Title    *string         `json:"title"`
	Content  *string         `json:"content"`
	Location *string         `json:"location"`
	Tags     *models.TagList `json:"tags"`
}

// GetPosts handles GET /api/v1/posts. Public; a valid bearer token only
// affects the per-post liked flag.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	userID := s.optionalUserID(c)

	posts, err := s.postService.List(c.UserContext(), limit, offset, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPost handles GET /api/v1/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), id, s.optionalUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/v1/posts. Accepts multipart form data with
// text fields plus up to ten image attachments. The authenticated caller is
// always the author, whatever the form says.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Expected multipart form data"))
	}

	images, err := readImageParts(form.File["images"])
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	post, err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		UserID:   userID,
		Title:    formValue(form, "title"),
		Content:  formValue(form, "content"),
		Location: formValue(form, "location"),
		Tags:     formTags(form),
		Images:   images,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PATCH /api/v1/posts/:id. Only the author gets past the
// service layer; everyone else sees 403 with the post untouched.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	in := service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		Location: req.Location,
	}
	if req.Tags != nil {
		in.Tags = []string(*req.Tags)
		in.TagsSet = true
	}

	post, err := s.postService.Update(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/v1/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles PATCH /api/v1/posts/:id/like. One call likes, the next
// unlikes; authors get 400 on their own posts.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	post, err := s.postService.ToggleLike(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// formTags accepts repeated tags fields as well as comma-separated values.
func formTags(form *multipart.Form) []string {
	var tags []string
	for _, v := range form.Value["tags"] {
		tags = append(tags, strings.Split(v, ",")...)
	}
	return tags
}

// readImageParts loads attachment contents, rejecting oversized or
// over-count uploads before anything is decoded or written.
func readImageParts(files []*multipart.FileHeader) ([][]byte, error) {
	if len(files) > upload.MaxImagesPerPost {
		return nil, models.NewValidationError("Too many images attached")
	}

	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		if fh.Size > upload.MaxImageBytes {
			return nil, models.NewValidationError("Image exceeds the maximum allowed size")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		content, err := io.ReadAll(io.LimitReader(f, upload.MaxImageBytes+1))
		f.Close()
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if int64(len(content)) > upload.MaxImageBytes {
			return nil, models.NewValidationError("Image exceeds the maximum allowed size")
		}
		images = append(images, content)
	}
	return images, nil
}
