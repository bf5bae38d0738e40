package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments lists the comments of a post (public)
// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{comments=[]models.Comment}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByPost(c.UserContext(), postID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// GetComment returns one comment of a post (public)
// @Summary Get comment
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} object{comment=models.Comment}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments/{commentId} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Get(c.UserContext(), postID, commentID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"comment": comment})
}

// CreateComment creates a comment on a post (protected)
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{body=string} true "Comment"
// @Success 200 {object} object{comment=models.Comment}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Create(c.UserContext(), currentPrincipal(c), service.CreateCommentInput{
		PostID: postID,
		Body:   middleware.BodyFrom(c).String("body"),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"comment": comment})
}

// UpdateComment edits a comment (owner or author)
// @Summary Update comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Param request body object{body=string} true "Comment"
// @Success 200 {object} object{comment=models.Comment}
// @Failure 400 {object} object{errors=[]models.FieldError}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments/{commentId} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Update(c.UserContext(), service.UpdateCommentInput{
		PostID:    postID,
		CommentID: commentID,
		Body:      middleware.BodyFrom(c).String("body"),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"comment": comment})
}

// DeleteComment removes a comment (owner or author)
// @Summary Delete comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.UserContext(), postID, commentID); err != nil {
		return s.respondError(c, err)
	}
	return done(c)
}

// loadComment resolves the comment targeted by /posts/:id/comments/:commentId.
func (s *Server) loadComment(c *fiber.Ctx) (policy.Ownable, error) {
	postID, err := c.ParamsInt("id")
	if err != nil || postID <= 0 {
		return nil, models.NewValidationError("Invalid " + humanizeParam("id"))
	}
	commentID, err := c.ParamsInt("commentId")
	if err != nil || commentID <= 0 {
		return nil, models.NewValidationError("Invalid " + humanizeParam("commentId"))
	}
	return s.commentService.Get(c.UserContext(), uint(postID), uint(commentID))
}
