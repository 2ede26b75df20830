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

// GroupHandler handles HTTP requests related to groups
type GroupHandler struct {
	groupRepository repositories.GroupRepository
	feedService     *services.FeedService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository, feedService *services.FeedService) *GroupHandler {
	return &GroupHandler{
		groupRepository: groupRepo,
		feedService:     feedService,
	}
}

// GroupPosts returns a group and one page of its posts, newest first
func (h *GroupHandler) GroupPosts(c echo.Context) error {
	group, err := h.groupRepository.GetGroupBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page, err := h.feedService.GetGroupPage(c.Request().Context(), group.ID, pageParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"group": group, "page": page})
}

// CreateGroup creates a new group
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"errors": formErrors(err), "form": req})
	}

	group := &models.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := h.groupRepository.CreateGroup(c.Request().Context(), group); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return echo.NewHTTPError(http.StatusConflict, "Group title or slug already in use")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, group)
}

// DeleteGroup deletes a group; its posts stay, with the group reference cleared
func (h *GroupHandler) DeleteGroup(c echo.Context) error {
	group, err := h.groupRepository.GetGroupBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.groupRepository.DeleteGroup(c.Request().Context(), group.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
