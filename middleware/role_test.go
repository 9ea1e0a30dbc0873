package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int

func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	dbCounter++
	dsn := fmt.Sprintf("file:middleware_test_%d?mode=memory&cache=shared", dbCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func tokenFor(t *testing.T, db *gorm.DB, role models.Role) string {
	t.Helper()

	user := models.User{Name: "User", Email: fmt.Sprintf("user%d-%s@test.io", dbCounter, role), Role: role}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, string(user.Role), user.Email)
	require.NoError(t, err)
	return token
}

func adminOnlyApp() *fiber.App {
	app := fiber.New()
	app.Get("/admin-only", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	db := setupTest(t)
	app := adminOnlyApp()

	resp := get(t, app, "/admin-only", tokenFor(t, db, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	db := setupTest(t)
	app := adminOnlyApp()

	for _, role := range []models.Role{models.RoleLearner, models.RoleInstructor} {
		resp := get(t, app, "/admin-only", tokenFor(t, db, role))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "role %s must be rejected", role)
	}
}

func TestRequireRoleRejectsUnknownRole(t *testing.T) {
	db := setupTest(t)
	app := adminOnlyApp()

	// A role value outside the enum never passes, even if it reached the
	// database somehow.
	user := models.User{Name: "Weird", Email: "weird@test.io", Role: models.Role("SUPERUSER")}
	require.NoError(t, db.Create(&user).Error)
	token, err := middleware.GenerateJWT(user.ID, user.Name, string(user.Role), user.Email)
	require.NoError(t, err)

	resp := get(t, app, "/admin-only", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleWithoutToken(t *testing.T) {
	setupTest(t)
	app := adminOnlyApp()

	resp := get(t, app, "/admin-only", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, models.RoleLearner.Valid())
	assert.True(t, models.RoleInstructor.Valid())
	assert.True(t, models.RoleAdmin.Valid())
	assert.False(t, models.Role("SUPERUSER").Valid())
	assert.False(t, models.Role("").Valid())
}
