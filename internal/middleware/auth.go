package middleware

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Zayan93/yatube/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// ContextUserKey is where parsed claims live on the request context
	ContextUserKey = "currentUser"
	// AuthCookieName is the cookie the login endpoint sets
	AuthCookieName = "auth_token"
	// LoginPath is where unauthenticated requests to protected routes go
	LoginPath = "/auth/login/"
)

// LoadUser parses the JWT from the Authorization header or the auth cookie,
// if one is present, and stores the claims on the context. Requests without a
// valid token pass through unauthenticated.
func LoadUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims := parseToken(c); claims != nil {
				c.Set(ContextUserKey, claims)
			}
			return next(c)
		}
	}
}

// RequireUser redirects unauthenticated requests to the login endpoint with a
// next parameter preserving the original path.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusFound,
					LoginPath+"?next="+url.QueryEscape(c.Request().RequestURI))
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user's claims, or nil
func CurrentUser(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(ContextUserKey).(*models.JwtCustomClaims)
	return claims
}

// JWTSecret returns the signing secret shared with the auth handler
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "supersecretjwtkey" // Must match the secret used for signing
	}
	return []byte(secret)
}

func parseToken(c echo.Context) *models.JwtCustomClaims {
	tokenString := ""

	// Expecting "Bearer <token>"
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		if cookie, err := c.Cookie(AuthCookieName); err == nil {
			tokenString = cookie.Value
		}
	}
	if tokenString == "" {
		return nil
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}
