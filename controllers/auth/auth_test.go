package authController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	authRoutes "lms/routers/authRoutes"

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
	dsn := fmt.Sprintf("file:auth_test_%d?mode=memory&cache=shared", dbCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func newApp() *fiber.App {
	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

// fakeProvider serves the identity verification endpoint. Tokens in the map
// resolve to an identity; anything else is rejected with 401.
func fakeProvider(t *testing.T, identities map[string]map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if auth := r.Header.Get("Authorization"); len(auth) > 7 {
			token = auth[7:]
		}
		identity, ok := identities[token]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(identity)
	}))
}

func TestSignupAndLogin(t *testing.T) {
	setupTest(t)
	app := newApp()

	resp, body := doRequest(t, app, "POST", "/auth/signup", "", fiber.Map{
		"name":     "Asha",
		"email":    "asha@test.io",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["data"].(map[string]interface{})["token"])

	resp, body = doRequest(t, app, "POST", "/auth/login", "", fiber.Map{
		"email":    "asha@test.io",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["data"].(map[string]interface{})["token"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	setupTest(t)
	app := newApp()

	payload := fiber.Map{"name": "Asha", "email": "asha@test.io", "password": "secret123"}
	doRequest(t, app, "POST", "/auth/signup", "", payload)
	resp, _ := doRequest(t, app, "POST", "/auth/signup", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	setupTest(t)
	app := newApp()

	doRequest(t, app, "POST", "/auth/signup", "", fiber.Map{
		"name": "Asha", "email": "asha@test.io", "password": "secret123",
	})
	resp, _ := doRequest(t, app, "POST", "/auth/login", "", fiber.Map{
		"email": "asha@test.io", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionCreatesUserOnFirstUse(t *testing.T) {
	provider := fakeProvider(t, map[string]map[string]string{
		"valid-token": {"id": "prov-42", "name": "Ravi", "email": "ravi@test.io"},
	})
	defer provider.Close()

	db := setupTest(t)
	config.AppConfig.IdentityProviderURL = provider.URL
	app := newApp()

	resp, body := doRequest(t, app, "POST", "/auth/session", "", fiber.Map{"provider_token": "valid-token"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	var user models.User
	require.NoError(t, db.Where("provider_id = ?", "prov-42").First(&user).Error)
	assert.Equal(t, "ravi@test.io", user.Email)
	assert.Equal(t, models.RoleLearner, user.Role)
	assert.Empty(t, user.Password, "provider accounts carry no local password")

	// Second exchange reuses the record
	doRequest(t, app, "POST", "/auth/session", "", fiber.Map{"provider_token": "valid-token"})
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSessionRejectsInvalidToken(t *testing.T) {
	provider := fakeProvider(t, nil)
	defer provider.Close()

	setupTest(t)
	config.AppConfig.IdentityProviderURL = provider.URL
	app := newApp()

	resp, _ := doRequest(t, app, "POST", "/auth/session", "", fiber.Map{"provider_token": "bogus"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProviderAccountCannotPasswordLogin(t *testing.T) {
	provider := fakeProvider(t, map[string]map[string]string{
		"valid-token": {"id": "prov-42", "name": "Ravi", "email": "ravi@test.io"},
	})
	defer provider.Close()

	setupTest(t)
	config.AppConfig.IdentityProviderURL = provider.URL
	app := newApp()

	doRequest(t, app, "POST", "/auth/session", "", fiber.Map{"provider_token": "valid-token"})

	resp, _ := doRequest(t, app, "POST", "/auth/login", "", fiber.Map{
		"email": "ravi@test.io", "password": "anything1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyReturnsIdentity(t *testing.T) {
	setupTest(t)
	app := newApp()

	_, body := doRequest(t, app, "POST", "/auth/signup", "", fiber.Map{
		"name": "Asha", "email": "asha@test.io", "password": "secret123",
	})
	token := body["data"].(map[string]interface{})["token"].(string)

	resp, body := doRequest(t, app, "GET", "/auth/verify", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "asha@test.io", data["email"])
	assert.Equal(t, string(models.RoleLearner), data["role"])
}

func TestVerifyRejectsMissingToken(t *testing.T) {
	setupTest(t)
	app := newApp()

	resp, _ := doRequest(t, app, "GET", "/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
