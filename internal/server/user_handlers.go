package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers lists every account (authors only)
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{users=[]models.User}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetCurrentUser returns the authenticated user
// @Summary Get current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{user=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/user [get]
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.UserContext(), currentPrincipal(c).ID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUser returns one user by id
// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{user=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.Get(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUserComments lists a user's comments, newest first
// @Summary List comments by user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{comments=[]models.Comment}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/comments [get]
func (s *Server) GetUserComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.userService.Comments(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// UpdateUser updates a profile (owner or author)
// @Summary Update user
// @Description Change username, password or, for authors, status
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body object{username=string,password=string,confirmPassword=string,status=string} true "Fields to change"
// @Success 200 {object} object{user=models.User}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	body := middleware.BodyFrom(c)
	in := service.UpdateUserInput{UserID: id}
	if body.Has("username") {
		username := body.String("username")
		in.Username = &username
	}
	if password := body.String("password"); password != "" {
		in.Password = &password
	}
	if status, ok := models.ParseRole(body.String("status")); ok {
		in.Status = &status
	}

	user, err := s.userService.Update(c.UserContext(), currentPrincipal(c), in)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// DeleteUser removes an account (owner or author)
// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.Delete(c.UserContext(), id); err != nil {
		return s.respondError(c, err)
	}
	return done(c)
}

// loadUser resolves the account targeted by /users/:id for the ownership check.
func (s *Server) loadUser(c *fiber.Ctx) (policy.Ownable, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, models.NewValidationError("Invalid " + humanizeParam("id"))
	}
	return s.userService.Get(c.UserContext(), uint(id))
}
