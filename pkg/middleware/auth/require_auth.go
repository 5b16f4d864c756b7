package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hortti/inventory/pkg/tokens"
)

type BearerAuth struct {
	JWTSecret []byte
}

func NewBearerAuth(secret []byte) *BearerAuth {
	return &BearerAuth{JWTSecret: secret}
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>"
// header. On success the claims are exposed as "user_id" and "username".
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		kind, token, found := strings.Cut(header, " ")
		if !found || kind != "Bearer" || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token ausente")
		}

		claims, err := tokens.AccessClaimsFromToken(token, m.JWTSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "token inválido")
		}

		c.Set("user_id", claims.Subject)
		c.Set("username", claims.Username)

		return next(c)
	}
}
