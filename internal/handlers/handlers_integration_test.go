package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/handlers"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/middleware"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/repositories"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/services"
)

// setupApp builds a Fiber app for testing over a fresh in-memory SQLite
// database with all handlers, services and middleware wired, plus a seeded
// admin account holding the system administrator role.
func setupApp(t *testing.T) (*fiber.App, *services.UserService) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// A unique DSN per test keeps the shared-cache databases isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Permission{}, &models.Role{}, &models.User{}, &models.Product{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	roleRepo := repositories.NewGORMRoleRepository(db)

	productService := services.NewProductService(productRepo, nil) // nil disables event publishing
	userService := services.NewUserService(userRepo, roleRepo)
	authService := services.NewAuthService(userRepo, jwtSecret)

	productHandler := handlers.NewProductHandler(productService)
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(authService, userService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protectedRoutes)
	userHandler.RegisterRoutes(protectedRoutes)

	// Seed the roles and an administrator.
	for _, name := range []string{models.RoleSystemAdmin, models.RoleStoreManager, models.RoleSalesClerk} {
		if err := roleRepo.Save(&models.Role{Name: name}); err != nil {
			t.Fatalf("failed to seed role %s: %v", name, err)
		}
	}
	admin := models.User{Username: "admin", FullName: "Administrador del Sistema", Email: "admin@ecomarket.cl", Password: "admin123"}
	if _, err := userService.CreateUser(&admin, nil); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	if _, err := userService.AssignRole(admin.ID, models.RoleSystemAdmin); err != nil {
		t.Fatalf("failed to grant admin role: %v", err)
	}

	return app, userService
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decode(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	userToRegister := map[string]interface{}{
		"username":  "testuser",
		"full_name": "Test User",
		"email":     "test@example.com",
		"password":  "password123",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	decode(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp.Message)
	assert.True(t, registerResp.User.Active)
	assert.NotZero(t, registerResp.User.ID)

	// Duplicate registration conflicts on the username.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	token := login(t, app, "testuser", "password123")
	assert.NotEmpty(t, token)

	// Wrong password.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProductLifecycle(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app, "admin", "admin123")

	// Create.
	newProduct := map[string]interface{}{
		"code":        "PRD010",
		"name":        "Miel Organica",
		"description": "Miel de abejas sin aditivos",
		"category":    "Alimentos",
		"price":       3000,
		"stock":       10,
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", token, newProduct)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decode(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "PRD010", created.Code)

	// A second product with the same code conflicts.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", token, newProduct)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Get by code.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/code/PRD010", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Product
	decode(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)

	// Over-drawing the stock is rejected.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/products/code/PRD010/stock", token, map[string]int{"delta": -15})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Draining it exactly to zero succeeds.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/products/code/PRD010/stock", token, map[string]int{"delta": -10})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var drained models.Product
	decode(t, resp, &drained)
	assert.Equal(t, 0, drained.Stock)

	// Update round-trips the same values.
	update := map[string]interface{}{
		"code":        "PRD010",
		"name":        "Miel Organica",
		"description": "Miel de abejas sin aditivos",
		"category":    "Alimentos",
		"price":       3000,
		"stock":       0,
	}
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", created.ID), token, update)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	decode(t, resp, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Code, updated.Code)

	// Stats.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/stats/count", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var countResp map[string]int
	decode(t, resp, &countResp)
	assert.Equal(t, 1, countResp["count"])

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/stats/most-expensive", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var dearest models.Product
	decode(t, resp, &dearest)
	assert.Equal(t, "PRD010", dearest.Code)

	// Delete, then the product is gone.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUserManagementAndRoles(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app, "admin", "admin123")

	// Create a user through the admin endpoint.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/users", token, map[string]interface{}{
		"username":  "ana",
		"full_name": "Ana Araya",
		"email":     "ana@x.cl",
		"password":  "secret1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var ana models.User
	decode(t, resp, &ana)
	assert.True(t, ana.Active)

	// Assign a role; assigning it again is rejected and leaves the role
	// set unchanged.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/roles/GERENTE_TIENDA", ana.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var withRole models.User
	decode(t, resp, &withRole)
	assert.Len(t, withRole.Roles, 1)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/roles/GERENTE_TIENDA", ana.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", ana.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &withRole)
	assert.Len(t, withRole.Roles, 1)

	// Removing a role that was never assigned is a silent no-op.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/roles/EMPLEADO_VENTAS", ana.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &withRole)
	assert.Len(t, withRole.Roles, 1)

	// An unknown role name is still an error.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/roles/SUPERVISOR", ana.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Deactivation blocks login; re-activation restores it.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/deactivate", ana.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var deactivated models.User
	decode(t, resp, &deactivated)
	assert.False(t, deactivated.Active)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "ana",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/activate", ana.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	anaToken := login(t, app, "ana", "secret1")

	// A store manager can manage users; drop the role and the same call is
	// forbidden.
	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/password", ana.ID), anaToken, map[string]string{
		"new_password": "secret2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/roles/GERENTE_TIENDA", ana.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	anaToken = login(t, app, "ana", "secret2")
	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/password", ana.ID), anaToken, map[string]string{
		"new_password": "secret3",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Delete the account outright; a second delete is not found.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", ana.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", ana.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestEndpointsRequireAuth(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", "", map[string]interface{}{
		"code": "PRD999", "name": "Producto Fantasma", "price": 100.0, "stock": 10,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
