package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candylab/sweetshop-api/internal/application/auth"
	"github.com/candylab/sweetshop-api/internal/application/sweets"
	"github.com/candylab/sweetshop-api/internal/domain"
	"github.com/candylab/sweetshop-api/internal/domain/entity"
	"github.com/candylab/sweetshop-api/internal/domain/repository"
	apphttp "github.com/candylab/sweetshop-api/internal/interfaces/http"
	"github.com/candylab/sweetshop-api/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory stores
// ─────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// memSweetRepo honors the store contract, including the conditional
// decrement, so purchase behavior through the stack is the real thing.
type memSweetRepo struct {
	mu     sync.Mutex
	sweets []*entity.Sweet // insertion order; List reverses
}

func (r *memSweetRepo) Create(s *entity.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sweets = append(r.sweets, &cp)
	return nil
}

func (r *memSweetRepo) GetByID(id string) (*entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.find(id); s != nil {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *memSweetRepo) List() ([]*entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Sweet, 0, len(r.sweets))
	for i := len(r.sweets) - 1; i >= 0; i-- {
		cp := *r.sweets[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSweetRepo) Search(f repository.SweetFilter) ([]*entity.Sweet, error) {
	all, _ := r.List()
	out := make([]*entity.Sweet, 0, len(all))
	for _, s := range all {
		if f.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Category != "" && !strings.Contains(strings.ToLower(s.Category), strings.ToLower(f.Category)) {
			continue
		}
		if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *memSweetRepo) Update(id string, patch repository.SweetPatch) (*entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(id)
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Category != nil {
		s.Category = *patch.Category
	}
	if patch.Price != nil {
		s.Price = *patch.Price
	}
	if patch.Quantity != nil {
		s.Quantity = *patch.Quantity
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		s.ImageURL = *patch.ImageURL
	}
	cp := *s
	return &cp, nil
}

func (r *memSweetRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sweets {
		if s.ID == id {
			r.sweets = append(r.sweets[:i], r.sweets[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memSweetRepo) DecrementQuantity(id string, n int) (*entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(id)
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.Quantity < n {
		return nil, domain.ErrInsufficientStock
	}
	s.Quantity -= n
	cp := *s
	return &cp, nil
}

func (r *memSweetRepo) IncrementQuantity(id string, n int) (*entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(id)
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Quantity += n
	cp := *s
	return &cp, nil
}

func (r *memSweetRepo) find(id string) *entity.Sweet {
	for _, s := range r.sweets {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// App wiring and request helpers
// ─────────────────────────────────────────────────────────────────────────────

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	authUC := auth.NewUseCase(newMemUserRepo(), auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	})
	sweetUC := sweets.NewUseCase(&memSweetRepo{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		SweetUC:   sweetUC,
		JWTSecret: testJWTSecret,
		Log:       logger.New(logger.Config{Env: "test", Level: "error"}),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// registerAndLogin creates an account through the API and returns its token.
func registerAndLogin(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()
	status, env := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Test Person",
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, status)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

// createSweet inserts a catalog entry as admin and returns its id.
func createSweet(t *testing.T, app *fiber.App, adminToken, name string, price string, qty int) string {
	t.Helper()
	status, env := doJSON(t, app, http.MethodPost, "/api/sweets/", adminToken, fiber.Map{
		"name":     name,
		"category": "Gummy",
		"price":    json.Number(price),
		"quantity": qty,
	})
	require.Equal(t, http.StatusCreated, status)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out.ID
}

// ─────────────────────────────────────────────────────────────────────────────
// Auth endpoints
// ─────────────────────────────────────────────────────────────────────────────

func TestAPI_Register(t *testing.T) {
	app := newTestAPI(t)
	status, env := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Jane",
		"email":    "jane@test.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
}

func TestAPI_Register_DuplicateEmail(t *testing.T) {
	app := newTestAPI(t)
	registerAndLogin(t, app, "jane@test.com", "")

	status, env := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Jane Again",
		"email":    "JANE@test.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "User already exists with this email", env.Message)
}

func TestAPI_Register_ValidationError(t *testing.T) {
	app := newTestAPI(t)
	status, env := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Jane",
		"email":    "jane@test.com",
		"password": "123",
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Password must be at least 6 characters long", env.Message)
}

func TestAPI_Login_InvalidCredentials(t *testing.T) {
	app := newTestAPI(t)
	registerAndLogin(t, app, "jane@test.com", "")

	status, env := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "jane@test.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestAPI_Login(t *testing.T) {
	app := newTestAPI(t)
	registerAndLogin(t, app, "jane@test.com", "")

	status, env := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "jane@test.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, status)
	var out struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "jane@test.com", out.User.Email)
}

// ─────────────────────────────────────────────────────────────────────────────
// Access control on /api/sweets
// ─────────────────────────────────────────────────────────────────────────────

func TestAPI_SweetsRequireAuth(t *testing.T) {
	app := newTestAPI(t)
	status, env := doJSON(t, app, http.MethodGet, "/api/sweets/", "", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "No token provided, authorization denied", env.Message)
}

func TestAPI_CreateSweet_UserForbidden(t *testing.T) {
	app := newTestAPI(t)
	userToken := registerAndLogin(t, app, "user@test.com", "")

	status, env := doJSON(t, app, http.MethodPost, "/api/sweets/", userToken, fiber.Map{
		"name":     "Fudge",
		"category": "Chocolate",
		"price":    json.Number("3.50"),
		"quantity": 10,
	})

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied. Admin privileges required", env.Message)
}

func TestAPI_RestockAndDelete_UserForbidden(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	userToken := registerAndLogin(t, app, "user@test.com", "")
	id := createSweet(t, app, adminToken, "Fudge", "3.50", 10)

	status, _ := doJSON(t, app, http.MethodPost, "/api/sweets/"+id+"/restock", userToken, fiber.Map{"quantity": 5})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/sweets/"+id, userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

// ─────────────────────────────────────────────────────────────────────────────
// Catalog flow
// ─────────────────────────────────────────────────────────────────────────────

func TestAPI_CreateAndListSweets(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	userToken := registerAndLogin(t, app, "user@test.com", "")

	createSweet(t, app, adminToken, "Gummy Bears", "1.99", 50)
	createSweet(t, app, adminToken, "Fudge", "3.50", 10)

	status, env := doJSON(t, app, http.MethodGet, "/api/sweets/", userToken, nil)
	require.Equal(t, http.StatusOK, status)

	var list []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Fudge", list[0].Name, "newest first")
}

func TestAPI_CreateSweet_ValidationError(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)

	status, env := doJSON(t, app, http.MethodPost, "/api/sweets/", adminToken, fiber.Map{
		"name":     "Mystery",
		"category": "Vegetable",
		"price":    json.Number("1.00"),
		"quantity": 5,
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Category must be one of: Chocolate, Candy, Gummy, Hard Candy, Lollipop, Marshmallow, Other", env.Message)
}

func TestAPI_SearchSweets(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	createSweet(t, app, adminToken, "Gummy Bears", "1.99", 50)
	createSweet(t, app, adminToken, "Dark Truffle", "8.99", 10)

	status, env := doJSON(t, app, http.MethodGet, "/api/sweets/search?name=gummy&maxPrice=5", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	var list []struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Gummy Bears", list[0].Name)
}

func TestAPI_UpdateSweet(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	id := createSweet(t, app, adminToken, "Gummy Bears", "1.99", 50)

	status, env := doJSON(t, app, http.MethodPut, "/api/sweets/"+id, adminToken, fiber.Map{
		"price": json.Number("2.49"),
	})
	require.Equal(t, http.StatusOK, status)

	var out struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "Gummy Bears", out.Name, "untouched fields survive a partial update")
	assert.True(t, out.Price.Equal(decimal.RequireFromString("2.49")))
}

func TestAPI_DeleteSweet(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	id := createSweet(t, app, adminToken, "Gummy Bears", "1.99", 50)

	status, env := doJSON(t, app, http.MethodDelete, "/api/sweets/"+id, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Sweet deleted successfully", env.Message)

	status, env = doJSON(t, app, http.MethodDelete, "/api/sweets/"+id, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Sweet not found", env.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// Purchase and restock
// ─────────────────────────────────────────────────────────────────────────────

func TestAPI_Purchase(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	userToken := registerAndLogin(t, app, "user@test.com", "")
	id := createSweet(t, app, adminToken, "Gummy Bears", "1.99", 50)

	status, env := doJSON(t, app, http.MethodPost, "/api/sweets/"+id+"/purchase", userToken, fiber.Map{"quantity": 3})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully purchased 3 Gummy Bears(s)", env.Message)

	var out struct {
		Quantity int `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 47, out.Quantity)
}

func TestAPI_Purchase_InsufficientStock(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	userToken := registerAndLogin(t, app, "user@test.com", "")
	id := createSweet(t, app, adminToken, "Fudge", "3.50", 2)

	status, env := doJSON(t, app, http.MethodPost, "/api/sweets/"+id+"/purchase", userToken, fiber.Map{"quantity": 5})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Insufficient quantity available", env.Message)

	// The refused purchase left the stock alone.
	status, env = doJSON(t, app, http.MethodGet, "/api/sweets/", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	var list []struct {
		Quantity int `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Quantity)
}

func TestAPI_Purchase_InvalidQuantity(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	userToken := registerAndLogin(t, app, "user@test.com", "")
	id := createSweet(t, app, adminToken, "Fudge", "3.50", 10)

	status, env := doJSON(t, app, http.MethodPost, "/api/sweets/"+id+"/purchase", userToken, fiber.Map{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Purchase quantity must be at least 1", env.Message)
}

func TestAPI_Restock(t *testing.T) {
	app := newTestAPI(t)
	adminToken := registerAndLogin(t, app, "admin@test.com", entity.RoleAdmin)
	id := createSweet(t, app, adminToken, "Fudge", "3.50", 2)

	status, env := doJSON(t, app, http.MethodPost, "/api/sweets/"+id+"/restock", adminToken, fiber.Map{"quantity": 8})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully restocked 8 Fudge(s)", env.Message)

	var out struct {
		Quantity int `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 10, out.Quantity)
}

func TestAPI_Purchase_MalformedIDIsNotFound(t *testing.T) {
	app := newTestAPI(t)
	userToken := registerAndLogin(t, app, "user@test.com", "")

	status, env := doJSON(t, app, http.MethodPost, "/api/sweets/not-a-uuid/purchase", userToken, fiber.Map{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Sweet not found", env.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// Misc
// ─────────────────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	app := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_UnknownRoute(t *testing.T) {
	app := newTestAPI(t)
	status, env := doJSON(t, app, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", env.Message)
}
