package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles user registration
// @Summary Register a new user
// @Description Create a new account with the guest role
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string,confirmPassword=string} true "Registration data"
// @Success 200 {object} object{user=models.User}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 409 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) Register(c *fiber.Ctx) error {
	body := middleware.BodyFrom(c)

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: body.String("username"),
		Password: body.String("password"),
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// Login handles user login
// @Summary Login user
// @Description Exchange username and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	body := middleware.BodyFrom(c)

	token, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Username: body.String("username"),
		Password: body.String("password"),
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"token": token})
}

// Logout acknowledges a logout. Tokens are stateless; the client discards its copy.
// @Summary Logout user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	middleware.Logger.InfoContext(c.UserContext(), "user logged out", "user_id", currentPrincipal(c).ID)
	return c.JSON(fiber.Map{"message": "Logged out"})
}
