package server

import (
	"fmt"
	"io"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/storage"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetPosts lists every post
// @Summary List posts
// @Description Posts with their author and categories resolved inline
// @Tags posts
// @Produce json
// @Success 200 {object} object{posts=[]models.Post}
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost returns one post
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{post=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// GetCategoryPosts lists the posts tagged with a category
// @Summary List posts in category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} object{posts=[]models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/posts [get]
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListByCategory(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreatePost creates a post (authors only)
// @Summary Create post
// @Description Accepts JSON or multipart form data; a multipart "image" file is uploaded to the image store
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,subheader=string,body=string,isPublished=bool,publishDate=string,categories=[]int} true "Post data"
// @Success 200 {object} object{post=models.Post}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 403 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in, err := postInput(c, middleware.BodyFrom(c))
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.Create(c.UserContext(), currentPrincipal(c), in)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// UpdatePost updates a post (authors only)
// @Summary Update post
// @Description Absent fields keep their stored value. categories may be a JSON array or a JSON-encoded array string.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{title=string,subheader=string,body=string,isPublished=bool,publishDate=string,editDate=string,categories=[]int} true "Fields to change"
// @Success 200 {object} object{post=models.Post}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in, err := postInput(c, middleware.BodyFrom(c))
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.Update(c.UserContext(), id, in)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// DeletePost deletes a post with its comments and category links (authors only)
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), id); err != nil {
		return s.respondError(c, err)
	}
	return done(c)
}

// postInput converts a validated body into the fields present in the request.
func postInput(c *fiber.Ctx, body validation.Body) (service.PostInput, error) {
	var in service.PostInput

	if body.Has("title") {
		v := body.String("title")
		in.Title = &v
	}
	if body.Has("subheader") {
		v := body.String("subheader")
		in.Subheader = &v
	}
	if body.Has("body") {
		v := body.String("body")
		in.Body = &v
	}
	if v, ok := body.Bool("isPublished"); ok {
		in.IsPublished = &v
	}

	var err error
	if body.Has("publishDate") {
		in.HasPublishDate = true
		if in.PublishDate, err = body.Date("publishDate"); err != nil {
			return in, models.NewValidationError("Publish date must be a valid date.")
		}
	}
	if body.Has("editDate") {
		if in.EditDate, err = body.Date("editDate"); err != nil {
			return in, models.NewValidationError("Edit date must be a valid date.")
		}
		in.HasEditDate = in.EditDate != nil
	}

	ids, present, err := body.IDs("categories")
	if err != nil {
		return in, models.NewValidationError("Categories must be a list of category ids.")
	}
	if present {
		in.CategoryIDs = ids
	}

	img, err := formImage(c)
	if err != nil {
		return in, err
	}
	in.Image = img
	return in, nil
}

// formImage reads the optional "image" file of a multipart request.
func formImage(c *fiber.Ctx) (*storage.Image, error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, models.NewValidationError("Invalid multipart form.")
	}
	files := form.File["image"]
	if len(files) == 0 {
		return nil, nil
	}

	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read uploaded image: %w", err)
	}
	return &storage.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
