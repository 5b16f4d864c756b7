package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hortti/inventory/internal/service"
	"github.com/hortti/inventory/internal/transport"
	"github.com/hortti/inventory/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "username e password são obrigatórios")
	}

	token, err := h.Svc.Login(ctx, username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "credenciais inválidas")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	l.Info("login_success", "username", username)
	return c.JSON(http.StatusOK, transport.LoginResponse{AccessToken: token})
}
