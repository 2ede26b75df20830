package handlers

import (
	"net/http"

	"github.com/Zayan93/yatube/internal/repositories"
	"github.com/Zayan93/yatube/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProfileHandler handles author profile and follow/unfollow HTTP requests
type ProfileHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	feedService    *services.FeedService
	followService  *services.FollowService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	feedService *services.FeedService,
	followService *services.FollowService,
) *ProfileHandler {
	return &ProfileHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		feedService:    feedService,
		followService:  followService,
	}
}

// Profile returns an author's profile: their posts, counts, and whether the
// current viewer follows them.
func (h *ProfileHandler) Profile(c echo.Context) error {
	author, err := h.lookupAuthor(c)
	if err != nil {
		return err
	}

	page, err := h.feedService.GetProfilePage(c.Request().Context(), author.ID, pageParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postsCount, err := h.postRepository.CountPostsByAuthorID(c.Request().Context(), author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followersCount, err := h.followService.FollowerCount(c.Request().Context(), author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followingCount, err := h.followService.FollowingCount(c.Request().Context(), author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	following := false
	if claims := currentUser(c); claims != nil {
		following, err = h.followService.IsFollowing(c.Request().Context(), claims.UserID, author.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"author":          author,
		"page":            page,
		"posts_count":     postsCount,
		"followers_count": followersCount,
		"following_count": followingCount,
		"following":       following,
	})
}

// FollowAuthor makes the current user follow the author, then returns to the
// profile. Self-follows and repeat follows change nothing.
func (h *ProfileHandler) FollowAuthor(c echo.Context) error {
	claims := currentUser(c)

	author, err := h.lookupAuthor(c)
	if err != nil {
		return err
	}
	if err := h.followService.Follow(c.Request().Context(), claims.UserID, author.ID, nil); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

// UnfollowAuthor removes the follow edge, then returns to the profile.
// Unfollowing an author who was never followed changes nothing.
func (h *ProfileHandler) UnfollowAuthor(c echo.Context) error {
	claims := currentUser(c)

	author, err := h.lookupAuthor(c)
	if err != nil {
		return err
	}
	if err := h.followService.Unfollow(c.Request().Context(), claims.UserID, author.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

func (h *ProfileHandler) lookupAuthor(c echo.Context) (*authorRef, error) {
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return &authorRef{ID: user.ID, Username: user.Username}, nil
}

// authorRef is the public slice of a user exposed on profile responses
type authorRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
