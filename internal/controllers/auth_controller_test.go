package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/models"
)

func TestLoginAndMe(t *testing.T) {
	r := setupRouter(t)
	seedUser(t, "alice", models.RoleManager)

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": testPassword,
	})
	requireStatus(t, w, http.StatusOK)
	body := decodeMap(t, w)
	require.Equal(t, "manager", body["role"])
	token, ok := body["access_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	w = doJSON(t, r, http.MethodGet, "/auth/me", token, nil)
	requireStatus(t, w, http.StatusOK)
	me := decodeMap(t, w)
	require.Equal(t, "alice", me["username"])
	require.Equal(t, "manager", me["role"])
	require.Nil(t, me["driver"])
}

func TestLoginWrongPassword(t *testing.T) {
	r := setupRouter(t)
	seedUser(t, "alice", models.RoleManager)

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "nope",
	})
	requireStatus(t, w, http.StatusUnauthorized)

	wrongPassword := decodeMap(t, w)

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "ghost",
		"password": testPassword,
	})
	requireStatus(t, w, http.StatusUnauthorized)

	// An unknown username must be indistinguishable from a wrong password.
	require.Equal(t, wrongPassword, decodeMap(t, w))
}

func TestMeIncludesDriverProfile(t *testing.T) {
	r := setupRouter(t)
	driver, token := seedDriver(t, "bob", "L1")

	w := doJSON(t, r, http.MethodGet, "/auth/me", token, nil)
	requireStatus(t, w, http.StatusOK)
	me := decodeMap(t, w)
	profile, ok := me["driver"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, float64(driver.ID), profile["id"])
	require.Equal(t, "L1", profile["license_number"])
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	r := setupRouter(t)
	_, admin := seedUser(t, "root", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/auth/users", admin, map[string]string{
		"username": "bob",
		"password": "secret",
		"role":     "driver",
	})
	requireStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/auth/users", admin, map[string]string{
		"username": "bob",
		"password": "other",
		"role":     "manager",
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestCreateUserWithNestedDriver(t *testing.T) {
	r := setupRouter(t)
	_, admin := seedUser(t, "root", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/auth/users", admin, map[string]interface{}{
		"username": "bob",
		"password": "secret",
		"role":     "driver",
		"driver": map[string]string{
			"first_name":     "Bob",
			"last_name":      "Smith",
			"license_number": "L1",
		},
	})
	requireStatus(t, w, http.StatusCreated)

	var count int64
	require.NoError(t, config.DB.Model(&models.Driver{}).Where("license_number = ?", "L1").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateUserRejectsDriverProfileForNonDriver(t *testing.T) {
	r := setupRouter(t)
	_, admin := seedUser(t, "root", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/auth/users", admin, map[string]interface{}{
		"username": "bob",
		"password": "secret",
		"role":     "manager",
		"driver": map[string]string{
			"first_name":     "Bob",
			"last_name":      "Smith",
			"license_number": "L1",
		},
	})
	requireStatus(t, w, http.StatusBadRequest)

	// Nothing is created on rejection.
	var count int64
	require.NoError(t, config.DB.Model(&models.User{}).Where("username = ?", "bob").Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestUsernameReusableAfterDelete(t *testing.T) {
	r := setupRouter(t)
	_, admin := seedUser(t, "root", models.RoleAdmin)
	user, _ := seedUser(t, "bob", models.RoleManager)

	w := doJSON(t, r, http.MethodDelete, userPath(user.ID), admin, nil)
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/auth/users", admin, map[string]string{
		"username": "bob",
		"password": "secret",
		"role":     "manager",
	})
	requireStatus(t, w, http.StatusCreated)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	r := setupRouter(t)
	_, admin := seedUser(t, "root", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/auth/users", admin, map[string]string{
		"username": "bob",
		"password": "secret",
		"role":     "owner",
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestUpdateUserRoleImmutable(t *testing.T) {
	r := setupRouter(t)
	_, admin := seedUser(t, "root", models.RoleAdmin)
	user, _ := seedUser(t, "bob", models.RoleDriver)

	w := doJSON(t, r, http.MethodPatch, userPath(user.ID), admin, map[string]string{
		"role": "admin",
	})
	requireStatus(t, w, http.StatusBadRequest)

	var reloaded models.User
	require.NoError(t, config.DB.First(&reloaded, user.ID).Error)
	require.Equal(t, models.RoleDriver, reloaded.Role)
}

func TestUpdateUserUsername(t *testing.T) {
	r := setupRouter(t)
	_, admin := seedUser(t, "root", models.RoleAdmin)
	user, _ := seedUser(t, "bob", models.RoleManager)
	seedUser(t, "carol", models.RoleManager)

	// Taken username conflicts.
	w := doJSON(t, r, http.MethodPatch, userPath(user.ID), admin, map[string]string{
		"username": "carol",
	})
	requireStatus(t, w, http.StatusConflict)

	w = doJSON(t, r, http.MethodPatch, userPath(user.ID), admin, map[string]string{
		"username": "robert",
	})
	requireStatus(t, w, http.StatusOK)

	var reloaded models.User
	require.NoError(t, config.DB.First(&reloaded, user.ID).Error)
	require.Equal(t, "robert", reloaded.Username)
}

func TestDeleteUserGuards(t *testing.T) {
	r := setupRouter(t)
	admin, adminToken := seedUser(t, "root", models.RoleAdmin)
	driver, _ := seedDriver(t, "bob", "L1")
	plain, _ := seedUser(t, "carol", models.RoleManager)

	// Admin accounts are protected.
	w := doJSON(t, r, http.MethodDelete, userPath(admin.ID), adminToken, nil)
	requireStatus(t, w, http.StatusBadRequest)

	// A user owning a driver profile cannot be removed.
	w = doJSON(t, r, http.MethodDelete, userPath(driver.UserID), adminToken, nil)
	requireStatus(t, w, http.StatusConflict)

	// Ordinary accounts can.
	w = doJSON(t, r, http.MethodDelete, userPath(plain.ID), adminToken, nil)
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodDelete, userPath(9999), adminToken, nil)
	requireStatus(t, w, http.StatusNotFound)
}

func TestUserEndpointsRequireAdmin(t *testing.T) {
	r := setupRouter(t)
	_, manager := seedUser(t, "alice", models.RoleManager)
	_, driverTok := seedDriver(t, "bob", "L1")

	for _, token := range []string{manager, driverTok} {
		w := doJSON(t, r, http.MethodGet, "/auth/users", token, nil)
		requireStatus(t, w, http.StatusForbidden)
	}

	w := doJSON(t, r, http.MethodGet, "/auth/users", "", nil)
	requireStatus(t, w, http.StatusUnauthorized)
}
