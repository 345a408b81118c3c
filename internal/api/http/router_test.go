package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/product-catalog/internal/api/dto"
	"github.com/spec-kit/product-catalog/internal/api/http/handlers"
	"github.com/spec-kit/product-catalog/internal/auth"
	"github.com/spec-kit/product-catalog/internal/config"
	"github.com/spec-kit/product-catalog/internal/domain"
	"github.com/spec-kit/product-catalog/internal/events"
	"github.com/spec-kit/product-catalog/internal/observability"
	"github.com/spec-kit/product-catalog/internal/service"
)

// -------- in-memory fakes backing the full HTTP stack --------

type memoryProductRepo struct {
	mu    sync.Mutex
	items map[string]domain.Product
	order []string
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{items: map[string]domain.Product{}}
}

func (f *memoryProductRepo) Create(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = uuid.NewString()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	f.items[product.ID] = *product
	f.order = append(f.order, product.ID)
	return nil
}

func (f *memoryProductRepo) Update(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	product.UpdatedAt = time.Now()
	f.items[product.ID] = *product
	return nil
}

func (f *memoryProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &product, nil
}

func (f *memoryProductRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *memoryProductRepo) ListPage(_ context.Context, offset, limit int, _ string) ([]domain.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := int64(len(f.order))
	if offset >= len(f.order) {
		return []domain.Product{}, total, nil
	}
	end := offset + limit
	if end > len(f.order) {
		end = len(f.order)
	}
	page := make([]domain.Product, 0, end-offset)
	for _, id := range f.order[offset:end] {
		page = append(page, f.items[id])
	}
	return page, total, nil
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]domain.User{}}
}

func (f *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	f.users[user.Login] = *user
	return nil
}

func (f *memoryUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[login]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *memoryUserRepo) ExistsByLogin(_ context.Context, login string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[login]
	return ok, nil
}

// -------- harness --------

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            bcrypt.MinCost,
		},
	}

	userRepo := newMemoryUserRepo()
	productRepo := newMemoryProductRepo()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	productService := service.NewProductService(productRepo, dispatcher)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Auth:           handlers.NewAuthHandler(authService),
		Products:       handlers.NewProductsHandler(productService),
		AuthMiddleware: authMiddleware,
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerAndLogin(t *testing.T, app *fiber.App, login, password, role string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"login": login, "password": password, "role": role,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"login": login, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	decodeBody(t, resp, &authResp)
	require.NotEmpty(t, authResp.Token)
	return authResp.Token
}

// -------- auth surface --------

func TestRegister_DuplicateLogin(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"login": "alice", "password": "s3cret", "role": "USER",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"login": "alice", "password": "other", "role": "USER",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_InvalidRole(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"login": "alice", "password": "s3cret", "role": "ROOT",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"login": "alice", "password": "s3cret", "role": "USER",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"login": "alice", "password": "wrong",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// unknown login looks exactly like a wrong password
	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"login": "nobody", "password": "s3cret",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// -------- product surface --------

func TestProducts_RequireAuthentication(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProducts_WritesRequireAdmin(t *testing.T) {
	app := newTestApp(t)
	userToken := registerAndLogin(t, app, "bob", "s3cret", "USER")

	resp := doJSON(t, app, http.MethodPost, "/products", userToken, []fiber.Map{
		{"name": "Notebook", "value": 50.0},
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProducts_CreateThenGet(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodPost, "/products", token, []fiber.Map{
		{"name": "Notebook", "value": 50.0},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created []dto.ProductResponse
	decodeBody(t, resp, &created)
	require.Len(t, created, 1)
	require.NotEmpty(t, created[0].ID)
	require.Equal(t, "Notebook", created[0].Name)
	require.Equal(t, 50.0, created[0].Value)

	resp = doJSON(t, app, http.MethodGet, "/products/"+created[0].ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.ProductResponse
	decodeBody(t, resp, &got)
	require.Equal(t, created[0].ID, got.ID)
	require.Equal(t, "Notebook", got.Name)
	require.Equal(t, 50.0, got.Value)
	require.Contains(t, got.Links, dto.Link{Rel: "self", Href: "/products/" + got.ID})
	require.Contains(t, got.Links, dto.Link{Rel: "products", Href: "/products"})
}

func TestProducts_CreateEmptyBatch(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodPost, "/products", token, []fiber.Map{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created []dto.ProductResponse
	decodeBody(t, resp, &created)
	require.Empty(t, created)
}

func TestProducts_CreateValidation(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodPost, "/products", token, []fiber.Map{
		{"name": "Notebook"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/products", token, []fiber.Map{
		{"name": "  ", "value": 5.0},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_GetUnknown(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodGet, "/products/"+uuid.NewString(), token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_GetMalformedID(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodGet, "/products/not-a-uuid", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_UpdateThenGet(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodPost, "/products", token, []fiber.Map{
		{"name": "Notebook", "value": 50.0},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created []dto.ProductResponse
	decodeBody(t, resp, &created)
	id := created[0].ID

	resp = doJSON(t, app, http.MethodPut, "/products/"+id, token, fiber.Map{
		"name": "Planner", "value": 75.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated dto.ProductResponse
	decodeBody(t, resp, &updated)
	require.Equal(t, id, updated.ID)
	require.Equal(t, "Planner", updated.Name)
	require.Equal(t, 75.0, updated.Value)

	resp = doJSON(t, app, http.MethodGet, "/products/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.ProductResponse
	decodeBody(t, resp, &got)
	require.Equal(t, "Planner", got.Name)
	require.Equal(t, 75.0, got.Value)
}

func TestProducts_Update_Unknown(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodPut, "/products/"+uuid.NewString(), token, fiber.Map{
		"name": "Planner", "value": 75.0,
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_DeleteThenGet(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodPost, "/products", token, []fiber.Map{
		{"name": "Notebook", "value": 50.0},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created []dto.ProductResponse
	decodeBody(t, resp, &created)
	id := created[0].ID

	resp = doJSON(t, app, http.MethodDelete, "/products/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "Product deleted successfully.", string(body))

	resp = doJSON(t, app, http.MethodGet, "/products/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_ListEmpty_NoContent(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodGet, "/products", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestProducts_ListPage_Links(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodPost, "/products", token, []fiber.Map{
		{"name": "A", "value": 1.0},
		{"name": "B", "value": 2.0},
		{"name": "C", "value": 3.0},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/products?page=0&size=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page dto.PageResponse
	decodeBody(t, resp, &page)
	require.Len(t, page.Content, 2)
	require.Equal(t, int64(3), page.Page.TotalElements)
	require.Equal(t, 2, page.Page.TotalPages)
	require.Equal(t, 0, page.Page.Number)

	for _, item := range page.Content {
		require.Contains(t, item.Links, dto.Link{Rel: "self", Href: "/products/" + item.ID})
	}

	// prev clamps to the first page on page 0
	require.Contains(t, page.Links, dto.Link{Rel: "next", Href: "/products?page=1&size=2"})
	require.Contains(t, page.Links, dto.Link{Rel: "prev", Href: "/products?page=0&size=2"})
}

func TestProducts_ListPage_BeyondEnd(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodPost, "/products", token, []fiber.Map{
		{"name": "A", "value": 1.0},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/products?page=5&size=20", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestProducts_ListPage_BadSort(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "admin", "s3cret", "ADMIN")

	resp := doJSON(t, app, http.MethodGet, "/products?sort=password", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
