package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/models"
)

// TodayRoutes is the driver portal's daily view: the authenticated
// driver's trips for one calendar day plus a small summary. The handler
// is the caller that supplies "today" to the route ledger; the date
// query param overrides it.
func TodayRoutes(c *gin.Context) {
	driver, err := callerDriver(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	if driver == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "driver profile not found"})
		return
	}

	day := time.Now().Truncate(24 * time.Hour)
	if raw := c.Query("date"); raw != "" {
		day, err = time.Parse(models.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	var routes []models.Route
	if err := config.DB.Preload("Vehicle").
		Where("driver_id = ?", driver.ID).
		Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1)).
		Order("date asc, id asc").
		Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}

	plannedDistance := 0.0
	prepared := make([]gin.H, 0, len(routes))
	for idx, route := range routes {
		status := "planned"
		if idx == 0 {
			status = "in_progress"
		}
		prepared = append(prepared, gin.H{
			"id":                 route.ID,
			"start_location":     route.StartLocation,
			"end_location":       route.EndLocation,
			"date":               route.Date.Format(models.DateLayout),
			"distance":           route.Distance,
			"vehicle_reg_number": route.Vehicle.RegNumber,
			"status":             status,
		})
		plannedDistance += route.Distance
	}

	firstRoute := "No trips scheduled today."
	if len(routes) > 0 {
		firstRoute = fmt.Sprintf("First trip: %s to %s", routes[0].StartLocation, routes[0].EndLocation)
	}

	c.JSON(http.StatusOK, gin.H{
		"routes": prepared,
		"summary": gin.H{
			"planned_distance": math.Round(plannedDistance*10) / 10,
			"route_count":      len(prepared),
			"first_route":      firstRoute,
			"maintenance_note": latestMaintenanceNote(driver.ID),
		},
	})
}

// latestMaintenanceNote describes the most recent maintenance across
// the driver's assigned vehicles.
func latestMaintenanceNote(driverID uint) string {
	var latest models.Maintenance
	err := config.DB.
		Where("vehicle_id IN (?)",
			config.DB.Model(&models.Vehicle{}).Select("id").Where("driver_id = ?", driverID)).
		Order("created_at desc").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "No maintenance records for your vehicle yet."
	}
	if err != nil {
		return "Maintenance information unavailable."
	}
	return fmt.Sprintf("Last service: %s (%s).", latest.TypeOfWork, latest.CreatedAt.Format("02.01.2006"))
}
