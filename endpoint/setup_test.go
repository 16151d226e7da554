package endpoint

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hospicare/appointment-system/middleware"
	"github.com/hospicare/appointment-system/model"
	"github.com/hospicare/appointment-system/util"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// EndpointTestModels defines the standard set of models migrated for endpoint tests
var EndpointTestModels = []interface{}{
	&model.User{},
	&model.Appointment{},
	&model.Prescription{},
	&model.Session{},
	&model.SecurityLog{},
}

// setupEndpointTest returns a Gin engine and an in-memory database with all
// standard models migrated. The JWT secret is fixed for the test.
func setupEndpointTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("APPENV", "test")
	t.Setenv("JWTSECRET", "test-secret-123")
	util.SetJWTSecret("test-secret-123")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(EndpointTestModels...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r, db
}

// setupRouterReusingDB returns a fresh engine bound to an existing test DB,
// for tests that need to hit the same route more than once.
func setupRouterReusingDB(t *testing.T, db *gorm.DB) (*gin.Engine, *gorm.DB) {
	t.Helper()
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r, db
}

// createTestUser creates a user with a properly hashed password.
func createTestUser(t *testing.T, db *gorm.DB, username, password string, role model.Role) model.User {
	t.Helper()
	salt, err := util.GenerateSalt()
	assert.NoError(t, err)
	hashed, err := util.HashPasswordArgon2(password, salt)
	assert.NoError(t, err)

	user := model.User{
		Username:     username,
		Password:     hashed,
		PasswordSalt: salt,
		Role:         role,
	}
	assert.NoError(t, db.Create(&user).Error)
	return user
}

// createTestSession persists a session row for the user and returns its token.
func createTestSession(t *testing.T, db *gorm.DB, user model.User) string {
	t.Helper()
	token := fmt.Sprintf("test-token-%d-%d", user.ID, time.Now().UnixNano())
	session := model.Session{
		UserID:       user.ID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(time.Hour),
		ClientIP:     "127.0.0.1",
		Browser:      "test-browser",
	}
	assert.NoError(t, db.Create(&session).Error)
	return token
}

// loginAs creates a user plus session and returns both with the auth header map.
func loginAs(t *testing.T, db *gorm.DB, username string, role model.Role) (model.User, map[string]string) {
	t.Helper()
	user := createTestUser(t, db, username, "password123", role)
	token := createTestSession(t, db, user)
	return user, map[string]string{"session-token": token}
}

// registerAuthed registers a route guarded by session validation and a role check.
func registerAuthed(r *gin.Engine, method, path string, role model.Role, handler gin.HandlerFunc) {
	chain := []gin.HandlerFunc{middleware.ValidateLoginToken(), middleware.RequireRole(role), handler}
	switch method {
	case http.MethodGet:
		r.GET(path, chain...)
	case http.MethodPost:
		r.POST(path, chain...)
	default:
		r.Handle(method, path, chain...)
	}
}

// assertStatus asserts that the response HTTP status code matches the expected value
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code)
}

// assertRedirectResponse asserts a successful redirect-shaped response: HTTP 307
// with the destination path in data.
func assertRedirectResponse(t *testing.T, w *httptest.ResponseRecorder, response map[string]interface{}, destination string) {
	t.Helper()
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	if response == nil {
		return
	}
	if success, ok := response["success"].(bool); ok {
		assert.True(t, success)
	}
	assert.Equal(t, destination, response["data"])
}

// assertSuccessResponse asserts that the response indicates success with HTTP 200
func assertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, response map[string]interface{}) {
	t.Helper()
	assert.Equal(t, http.StatusOK, w.Code)
	if response == nil {
		return
	}
	if success, ok := response["success"].(bool); ok {
		assert.True(t, success)
	}
}
