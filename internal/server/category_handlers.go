package server

import (
	"inkwell/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetCategories lists every category
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} object{categories=[]models.Category}
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategory returns one category
// @Summary Get category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} object{category=models.Category}
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id} [get]
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.Get(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"category": category})
}

// CreateCategory creates a category (authors only)
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string} true "Category"
// @Success 200 {object} object{category=models.Category}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 403 {object} models.ErrorResponse
// @Router /categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	category, err := s.categoryService.Create(c.UserContext(), middleware.BodyFrom(c).String("name"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"category": category})
}

// UpdateCategory renames a category (authors only)
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body object{name=string} true "Category"
// @Success 200 {object} object{category=models.Category}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id} [put]
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.Update(c.UserContext(), id, middleware.BodyFrom(c).String("name"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"category": category})
}

// DeleteCategory detaches a category from its posts and deletes it (authors only)
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.Delete(c.UserContext(), id); err != nil {
		return s.respondError(c, err)
	}
	return done(c)
}
