package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hortti/inventory/internal/service"
	"github.com/hortti/inventory/internal/storage"
	"github.com/hortti/inventory/internal/transport"
	"github.com/hortti/inventory/pkg/logging"
)

type ProductHTTP struct {
	Svc   *service.ProductService
	Store *storage.Store

	PublicBaseURL string
	UploadDir     string
}

func (h *ProductHTTP) baseURL(c echo.Context) string {
	return publicBaseURL(c, h.PublicBaseURL)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.List(ctx, c.QueryParam("q"), c.QueryParam("sort"), c.QueryParam("order"))
	if err != nil {
		l.Error("list_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	return c.JSON(http.StatusOK, transport.ToProductResponses(items, h.baseURL(c), h.UploadDir))
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "produto não encontrado")
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	return c.JSON(http.StatusOK, transport.ToProductResponse(prod, h.baseURL(c), h.UploadDir))
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	imagePath, httpErr := h.saveOptionalImage(c)
	if httpErr != nil {
		l.Warn("create_product_failed", "status", httpErr.Code, "reason", httpErr.Message)
		return httpErr
	}

	prod, err := h.Svc.Create(ctx, service.CreateProductInput{
		Name:      c.FormValue("name"),
		Category:  c.FormValue("category"),
		Price:     c.FormValue("price"),
		ImagePath: imagePath,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_product_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "dados do produto inválidos")
		}
		l.Error("create_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	l.Info("create_product_success", "id", prod.ID)
	return c.JSON(http.StatusCreated, transport.ToProductResponse(prod, h.baseURL(c), h.UploadDir))
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
	}

	prod, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_product_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "produto não encontrado")
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_product_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "dados do produto inválidos")
		default:
			l.Error("update_product_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
		}
	}

	l.Info("update_product_success", "id", prod.ID)
	return c.JSON(http.StatusOK, transport.ToProductResponse(prod, h.baseURL(c), h.UploadDir))
}

func (h *ProductHTTP) UpdateProductImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_image")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_image_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		l.Warn("update_image_failed", "status", 400, "reason", "missing file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "imagem é obrigatória")
	}

	rel, err := h.Store.SaveProductImage(fh)
	if err != nil {
		if httpErr := uploadError(err); httpErr != nil {
			l.Warn("update_image_failed", "status", httpErr.Code, "reason", httpErr.Message)
			return httpErr
		}
		l.Error("update_image_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	prod, err := h.Svc.ReplaceImage(ctx, id, rel)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_image_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "produto não encontrado")
		}
		l.Error("update_image_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	l.Info("update_image_success", "id", prod.ID)
	return c.JSON(http.StatusOK, transport.ToProductResponse(prod, h.baseURL(c), h.UploadDir))
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	ok, err := h.Svc.Remove(ctx, id)
	if err != nil {
		l.Error("delete_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
	}
	if !ok {
		l.Warn("delete_product_failed", "status", 404, "id", id)
		return echo.NewHTTPError(http.StatusNotFound, "produto não encontrado")
	}

	l.Info("delete_product_success", "id", id)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// saveOptionalImage stores the "image" part when present. A missing file is
// fine on create; a rejected one is the client's problem.
func (h *ProductHTTP) saveOptionalImage(c echo.Context) (string, *echo.HTTPError) {
	fh, err := c.FormFile("image")
	if err != nil {
		// Covers both "no file field" and "not a multipart body"; the
		// required form fields are validated by the service.
		return "", nil
	}

	rel, err := h.Store.SaveProductImage(fh)
	if err != nil {
		if httpErr := uploadError(err); httpErr != nil {
			return "", httpErr
		}
		return "", echo.NewHTTPError(http.StatusInternalServerError, "erro interno")
	}
	return rel, nil
}

func uploadError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, storage.ErrInvalidFileType):
		return echo.NewHTTPError(http.StatusBadRequest, "tipo de arquivo inválido")
	case errors.Is(err, storage.ErrFileTooLarge):
		return echo.NewHTTPError(http.StatusBadRequest, "arquivo muito grande")
	}
	return nil
}
