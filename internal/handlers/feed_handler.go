package handlers

import (
	"net/http"

	"github.com/Zayan93/yatube/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// Index returns one page of the global feed, newest first
func (h *FeedHandler) Index(c echo.Context) error {
	page, err := h.feedService.GetFeedPage(c.Request().Context(), pageParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"page": page})
}

// FollowIndex returns one page of posts by the authors the current user follows
func (h *FeedHandler) FollowIndex(c echo.Context) error {
	claims := currentUser(c)

	page, err := h.feedService.GetFollowedPage(c.Request().Context(), claims.UserID, pageParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"page": page})
}
