package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/models"
)

func TestCreateMaintenance(t *testing.T) {
	r := setupRouter(t)
	_, manager := seedUser(t, "alice", models.RoleManager)
	vehicle := seedVehicle(t, "A123")

	w := doJSON(t, r, http.MethodPost, "/maintenance", manager, map[string]interface{}{
		"type_of_work": "brake service",
		"cost":         120.5,
		"vehicle_id":   vehicle.ID,
	})
	requireStatus(t, w, http.StatusCreated)
	body := decodeMap(t, w)
	require.Equal(t, "brake service", body["type_of_work"])
	require.Equal(t, 120.5, body["cost"])

	// Zero cost is valid.
	w = doJSON(t, r, http.MethodPost, "/maintenance", manager, map[string]interface{}{
		"type_of_work": "warranty check",
		"cost":         0,
		"vehicle_id":   vehicle.ID,
	})
	requireStatus(t, w, http.StatusCreated)
}

func TestCreateMaintenanceNegativeCost(t *testing.T) {
	r := setupRouter(t)
	_, manager := seedUser(t, "alice", models.RoleManager)
	vehicle := seedVehicle(t, "A123")

	w := doJSON(t, r, http.MethodPost, "/maintenance", manager, map[string]interface{}{
		"type_of_work": "oil change",
		"cost":         -5,
		"vehicle_id":   vehicle.ID,
	})
	requireStatus(t, w, http.StatusBadRequest)

	// Nothing was committed.
	w = doJSON(t, r, http.MethodGet, "/maintenance", manager, nil)
	requireStatus(t, w, http.StatusOK)
	require.Empty(t, decodeList(t, w))
}

func TestCreateMaintenanceVehicleNotFound(t *testing.T) {
	r := setupRouter(t)
	_, manager := seedUser(t, "alice", models.RoleManager)

	w := doJSON(t, r, http.MethodPost, "/maintenance", manager, map[string]interface{}{
		"type_of_work": "oil change",
		"cost":         10,
		"vehicle_id":   9999,
	})
	requireStatus(t, w, http.StatusNotFound)

	// The rejected record never reached the table.
	var count int64
	require.NoError(t, config.DB.Model(&models.Maintenance{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreateMaintenanceForbiddenForDriver(t *testing.T) {
	r := setupRouter(t)
	_, driverTok := seedDriver(t, "bob", "L1")
	vehicle := seedVehicle(t, "A123")

	w := doJSON(t, r, http.MethodPost, "/maintenance", driverTok, map[string]interface{}{
		"type_of_work": "oil change",
		"cost":         10,
		"vehicle_id":   vehicle.ID,
	})
	requireStatus(t, w, http.StatusForbidden)
}

func TestListMaintenanceVehicleFilter(t *testing.T) {
	r := setupRouter(t)
	_, manager := seedUser(t, "alice", models.RoleManager)
	first := seedVehicle(t, "A123")
	second := seedVehicle(t, "B456")

	for _, record := range []models.Maintenance{
		{TypeOfWork: "oil change", Cost: 40, VehicleID: first.ID},
		{TypeOfWork: "tires", Cost: 300, VehicleID: second.ID},
	} {
		require.NoError(t, config.DB.Create(&record).Error)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/maintenance?vehicle_id=%d", first.ID), manager, nil)
	requireStatus(t, w, http.StatusOK)
	records := decodeList(t, w)
	require.Len(t, records, 1)
	require.Equal(t, "oil change", records[0]["type_of_work"])
}

func TestListMaintenanceScopedForDriver(t *testing.T) {
	r := setupRouter(t)
	driver, driverTok := seedDriver(t, "bob", "L1")
	mine := seedVehicle(t, "A123")
	require.NoError(t, config.DB.Model(&models.Vehicle{}).Where("id = ?", mine.ID).Update("driver_id", driver.ID).Error)
	other := seedVehicle(t, "B456")

	for _, record := range []models.Maintenance{
		{TypeOfWork: "oil change", Cost: 40, VehicleID: mine.ID},
		{TypeOfWork: "tires", Cost: 300, VehicleID: other.ID},
	} {
		require.NoError(t, config.DB.Create(&record).Error)
	}

	w := doJSON(t, r, http.MethodGet, "/maintenance", driverTok, nil)
	requireStatus(t, w, http.StatusOK)
	records := decodeList(t, w)
	require.Len(t, records, 1)
	require.Equal(t, float64(mine.ID), records[0]["vehicle_id"])
}
