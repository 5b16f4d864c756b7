package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hortti/inventory/internal/models"
	"github.com/hortti/inventory/internal/repo"
	"github.com/hortti/inventory/internal/service"
	"github.com/hortti/inventory/internal/storage"
	"github.com/hortti/inventory/internal/transport"
	"github.com/hortti/inventory/pkg/hash"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type testEnv struct {
	e     *echo.Echo
	db    *gorm.DB
	store *storage.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	pwHash, err := hash.HashPassword("Secret123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Username: "admin", PasswordHash: pwHash}).Error)

	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	secret := []byte("test-jwt-secret")
	rep := &repo.GormRepo{DB: db}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{Svc: &service.AuthService{
			Repo:      rep,
			JWTSecret: secret,
			TokenTTL:  time.Hour,
		}},
		ProductHandler: &ProductHTTP{
			Svc:       &service.ProductService{Repo: rep, Store: store},
			Store:     store,
			UploadDir: "uploads",
		},
		JWTSecret: secret,
	})

	return &testEnv{e: e, db: db, store: store}
}

func (env *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSON(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	return env.do(t, method, path, bytes.NewReader(data), echo.MIMEApplicationJSON, token)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (env *testEnv) login(t *testing.T) string {
	t.Helper()

	rec := env.doJSON(t, http.MethodPost, "/auth/login", transport.LoginRequest{
		Username: "admin",
		Password: "Secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (env *testEnv) createProduct(t *testing.T, token, name, category, price string) transport.ProductResponse {
	t.Helper()

	body, ctype := multipartBody(t, map[string]string{
		"name":     name,
		"category": category,
		"price":    price,
	}, "", "", nil)
	rec := env.do(t, http.MethodPost, "/products", body, ctype, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp transport.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("success", func(t *testing.T) {
		token := env.login(t)
		assert.NotEmpty(t, token)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin"}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{"password": "x"}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/auth/login", transport.LoginRequest{
			Username: "admin",
			Password: "wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = env.doJSON(t, http.MethodPost, "/auth/login", transport.LoginRequest{
			Username: "ghost",
			Password: "Secret123",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthRequiredOnMutatingRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	body, ctype := multipartBody(t, map[string]string{"name": "x", "category": "fruta", "price": "1"}, "", "", nil)
	rec := env.do(t, http.MethodPost, "/products", body, ctype, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic abc123")
	out := httptest.NewRecorder()
	env.e.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code, "non-Bearer scheme is rejected")

	rec = env.do(t, http.MethodPost, "/products", nil, "", "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(t, http.MethodPut, "/products/6e7f1f5a-0000-0000-0000-000000000000", map[string]string{"name": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodDelete, "/products/6e7f1f5a-0000-0000-0000-000000000000", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)

	t.Run("without image", func(t *testing.T) {
		resp := env.createProduct(t, token, "Banana", "fruta", "5,99")
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "Banana", resp.Name)
		assert.EqualValues(t, 599, resp.PriceCents)
		assert.Nil(t, resp.ImageURL)
	})

	t.Run("with image", func(t *testing.T) {
		body, ctype := multipartBody(t, map[string]string{
			"name":     "Maçã",
			"category": "fruta",
			"price":    "8.90",
		}, "image", "maca.png", pngBytes)
		rec := env.do(t, http.MethodPost, "/products", body, ctype, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp transport.ProductResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.ImageURL)
		assert.Contains(t, *resp.ImageURL, "/uploads/products/")
	})

	t.Run("invalid price", func(t *testing.T) {
		body, ctype := multipartBody(t, map[string]string{
			"name":     "Banana",
			"category": "fruta",
			"price":    "5.999",
		}, "", "", nil)
		rec := env.do(t, http.MethodPost, "/products", body, ctype, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid category", func(t *testing.T) {
		body, ctype := multipartBody(t, map[string]string{
			"name":     "Banana",
			"category": "carne",
			"price":    "5.99",
		}, "", "", nil)
		rec := env.do(t, http.MethodPost, "/products", body, ctype, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid file type", func(t *testing.T) {
		body, ctype := multipartBody(t, map[string]string{
			"name":     "Banana",
			"category": "fruta",
			"price":    "5.99",
		}, "image", "notes.txt", []byte("plain text, not an image"))
		rec := env.do(t, http.MethodPost, "/products", body, ctype, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)
	created := env.createProduct(t, token, "Banana", "fruta", "5.99")

	rec := env.do(t, http.MethodGet, "/products/"+created.ID, nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "Banana", resp.Name)

	rec = env.do(t, http.MethodGet, "/products/6e7f1f5a-0000-0000-0000-000000000000", nil, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/not-a-uuid", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)
	env.createProduct(t, token, "Banana", "fruta", "5.99")
	env.createProduct(t, token, "Alface", "verdura", "3.50")

	rec := env.do(t, http.MethodGet, "/products?q=banana", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []transport.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Banana", items[0].Name)

	rec = env.do(t, http.MethodGet, "/products?sort=price&order=desc", nil, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Banana", items[0].Name)
}

func TestUpdateProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)
	created := env.createProduct(t, token, "Banana", "fruta", "5.99")

	rec := env.doJSON(t, http.MethodPut, "/products/"+created.ID, map[string]string{"price": "7,25"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Banana", resp.Name)
	assert.EqualValues(t, 725, resp.PriceCents)

	rec = env.doJSON(t, http.MethodPut, "/products/"+created.ID, map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty patch is rejected")

	rec = env.doJSON(t, http.MethodPut, "/products/6e7f1f5a-0000-0000-0000-000000000000", map[string]string{"name": "x"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProductImage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)
	created := env.createProduct(t, token, "Banana", "fruta", "5.99")

	body, ctype := multipartBody(t, nil, "image", "banana.png", pngBytes)
	rec := env.do(t, http.MethodPut, "/products/"+created.ID+"/image", body, ctype, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var first transport.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.NotNil(t, first.ImageURL)

	// Replacing again swaps the pointer and eventually removes the old file.
	body, ctype = multipartBody(t, nil, "image", "banana2.png", pngBytes)
	rec = env.do(t, http.MethodPut, "/products/"+created.ID+"/image", body, ctype, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var second transport.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	require.NotNil(t, second.ImageURL)
	assert.NotEqual(t, *first.ImageURL, *second.ImageURL)

	t.Run("missing file", func(t *testing.T) {
		body, ctype := multipartBody(t, map[string]string{"other": "field"}, "", "", nil)
		rec := env.do(t, http.MethodPut, "/products/"+created.ID+"/image", body, ctype, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		body, ctype := multipartBody(t, nil, "image", "x.png", pngBytes)
		rec := env.do(t, http.MethodPut, "/products/6e7f1f5a-0000-0000-0000-000000000000/image", body, ctype, token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)
	created := env.createProduct(t, token, "Banana", "fruta", "5.99")

	rec := env.do(t, http.MethodDelete, "/products/"+created.ID, nil, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/products/"+created.ID, nil, "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code, "already gone maps to 404")
}
