package handlers

import (
	"net/http"

	"github.com/Zayan93/yatube/internal/models"
	"github.com/Zayan93/yatube/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// AddComment creates a new comment on a post and returns to the post view
func (h *CommentHandler) AddComment(c echo.Context) error {
	claims := currentUser(c)

	postID, err := pathID(c, "post_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	post, err := h.postRepository.GetPostByAuthorUsernameAndID(c.Request().Context(), c.Param("username"), postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"errors": formErrors(err), "form": req, "post": post})
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: claims.UserID,
		Text:     req.Text,
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, postPath(c.Param("username"), post.ID))
}

// DeleteComment removes a comment from a post. Only the comment's author may
// delete it; anyone else lands back on the post's read view.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims := currentUser(c)

	postID, err := pathID(c, "post_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if _, err := h.postRepository.GetPostByAuthorUsernameAndID(c.Request().Context(), c.Param("username"), postID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	commentID, err := pathID(c, "comment_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID)
	if err != nil || comment.PostID != postID {
		if err == nil || err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.AuthorID != claims.UserID {
		return c.Redirect(http.StatusFound, postPath(c.Param("username"), postID))
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
