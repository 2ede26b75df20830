package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Zayan93/yatube/internal/middleware"
	"github.com/Zayan93/yatube/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// currentUser returns the authenticated user's claims, or nil
func currentUser(c echo.Context) *models.JwtCustomClaims {
	return middleware.CurrentUser(c)
}

// pageParam reads the page query parameter; anything unparseable is page 1
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pathID parses a numeric path parameter
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// formErrors flattens validation failures into a field -> message map so
// invalid forms re-render with HTTP 200 and per-field errors.
func formErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = "failed on " + fe.Tag()
		}
		return fields
	}
	fields["form"] = err.Error()
	return fields
}

// postPath builds the canonical read-view path for a post
func postPath(username string, postID uint) string {
	return "/" + username + "/" + strconv.FormatUint(uint64(postID), 10) + "/"
}
