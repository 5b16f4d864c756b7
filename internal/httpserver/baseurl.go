package httpserver

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicBaseURL resolves the absolute URL prefix used to render image URLs:
// the configured PUBLIC_BASE_URL when set, otherwise the forwarded or
// request proto/host.
func publicBaseURL(c echo.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}

	proto := c.Scheme()
	if fwd := c.Request().Header.Get("X-Forwarded-Proto"); fwd != "" {
		proto = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	host := c.Request().Host
	if fwd := c.Request().Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	if host == "" {
		host = "localhost"
	}

	return proto + "://" + host
}
