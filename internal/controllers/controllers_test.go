package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/middleware"
	"github.com/KiraTious/FleetTracker/internal/models"
	"github.com/KiraTious/FleetTracker/internal/routes"
)

// setupRouter gives each test its own in-memory database behind the
// global handle and a fully wired router, so requests exercise the
// same middleware chain as production.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.DB = db

	return routes.SetupRouter()
}

const testPassword = "pw123"

// seedUser inserts an account directly and returns it with a valid
// bearer token for its role.
func seedUser(t *testing.T, username, role string) (models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := models.User{Username: username, Password: string(hash), Role: role}
	require.NoError(t, config.DB.Create(&user).Error)

	token, err := middleware.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

// seedDriver provisions a driver-role user plus profile.
func seedDriver(t *testing.T, username, license string) (models.Driver, string) {
	t.Helper()
	user, token := seedUser(t, username, models.RoleDriver)
	driver := models.Driver{
		FirstName:     "Test",
		LastName:      "Driver",
		LicenseNumber: license,
		UserID:        user.ID,
	}
	require.NoError(t, config.DB.Create(&driver).Error)
	return driver, token
}

func seedVehicle(t *testing.T, reg string) models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{Brand: "Ford", VehModel: "Transit", RegNumber: reg}
	require.NoError(t, config.DB.Create(&vehicle).Error)
	return vehicle
}

// doJSON performs a request against the router, marshalling body when
// present and attaching the bearer token when non-empty.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func userPath(id uint) string {
	return fmt.Sprintf("/auth/users/%d", id)
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
