package handlers

import (
	"net/http"

	"github.com/Zayan93/yatube/internal/models"
	"github.com/Zayan93/yatube/internal/repositories"
	"github.com/Zayan93/yatube/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	groupRepository   repositories.GroupRepository
	commentRepository repositories.CommentRepository
	followService     *services.FollowService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	commentRepo repositories.CommentRepository,
	followService *services.FollowService,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		groupRepository:   groupRepo,
		commentRepository: commentRepo,
		followService:     followService,
	}
}

// NewPostForm returns the data the new-post form needs
func (h *PostHandler) NewPostForm(c echo.Context) error {
	groups, err := h.groupRepository.GetGroups(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"groups": groups})
}

// CreatePost creates a new post authored by the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims := currentUser(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"errors": formErrors(err), "form": req})
	}

	post := &models.Post{
		Text:     req.Text,
		AuthorID: claims.UserID,
		GroupID:  req.GroupID,
		Image:    req.Image,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/")
}

// ViewPost returns a post with its author, comments and follow context
func (h *PostHandler) ViewPost(c echo.Context) error {
	post, err := h.lookupPost(c)
	if err != nil {
		return err
	}

	comments, err := h.commentRepository.GetCommentsByPostID(c.Request().Context(), post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postsCount, err := h.postRepository.CountPostsByAuthorID(c.Request().Context(), post.AuthorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followersCount, err := h.followService.FollowerCount(c.Request().Context(), post.AuthorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followingCount, err := h.followService.FollowingCount(c.Request().Context(), post.AuthorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	following := false
	if claims := currentUser(c); claims != nil {
		following, err = h.followService.IsFollowing(c.Request().Context(), claims.UserID, post.AuthorID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"post":            post,
		"author":          post.Author,
		"comments":        comments,
		"posts_count":     postsCount,
		"followers_count": followersCount,
		"following_count": followingCount,
		"following":       following,
	})
}

// EditPostForm returns the post for editing. A non-author lands back on the
// read view instead of an error page.
func (h *PostHandler) EditPostForm(c echo.Context) error {
	post, err := h.lookupPost(c)
	if err != nil {
		return err
	}
	if redirect := h.requireAuthor(c, post); redirect != nil {
		return redirect(c)
	}

	groups, err := h.groupRepository.GetGroups(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post, "groups": groups})
}

// EditPost updates a post's text, group and image. The author and publish
// date never change.
func (h *PostHandler) EditPost(c echo.Context) error {
	post, err := h.lookupPost(c)
	if err != nil {
		return err
	}
	if redirect := h.requireAuthor(c, post); redirect != nil {
		return redirect(c)
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"errors": formErrors(err), "form": req, "post": post})
	}

	post.Text = req.Text
	post.GroupID = req.GroupID
	post.Image = req.Image
	if err := h.postRepository.UpdatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, postPath(c.Param("username"), post.ID))
}

// DeletePost deletes a post together with its comments
func (h *PostHandler) DeletePost(c echo.Context) error {
	post, err := h.lookupPost(c)
	if err != nil {
		return err
	}
	if redirect := h.requireAuthor(c, post); redirect != nil {
		return redirect(c)
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), post.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// lookupPost resolves the username/post_id pair from the path; any mismatch
// is a 404.
func (h *PostHandler) lookupPost(c echo.Context) (*models.Post, error) {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	post, err := h.postRepository.GetPostByAuthorUsernameAndID(c.Request().Context(), c.Param("username"), postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return post, nil
}

// requireAuthor returns a redirect to the post's read view when the current
// user is not the author, nil otherwise.
func (h *PostHandler) requireAuthor(c echo.Context, post *models.Post) echo.HandlerFunc {
	claims := currentUser(c)
	if claims != nil && claims.UserID == post.AuthorID {
		return nil
	}
	target := postPath(c.Param("username"), post.ID)
	return func(c echo.Context) error {
		return c.Redirect(http.StatusFound, target)
	}
}
