package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/hortti/inventory/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/login", d.AuthHandler.Login)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	authMW := middleware.NewBearerAuth(d.JWTSecret)
	private := products.Group("", authMW.RequireAuth)
	private.POST("", d.ProductHandler.CreateProduct)
	private.PUT("/:id", d.ProductHandler.UpdateProduct)
	private.PUT("/:id/image", d.ProductHandler.UpdateProductImage)
	private.DELETE("/:id", d.ProductHandler.DeleteProduct)
}
