package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/middleware"
	"github.com/KiraTious/FleetTracker/internal/models"
)

type createMaintenanceInput struct {
	TypeOfWork string   `json:"type_of_work" binding:"required"`
	Cost       *float64 `json:"cost" binding:"required"`
	VehicleID  uint     `json:"vehicle_id" binding:"required"`
}

// CreateMaintenance appends a work record to a vehicle's ledger.
func CreateMaintenance(c *gin.Context) {
	var input createMaintenanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *input.Cost < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cost must not be negative"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, input.VehicleID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	record := models.Maintenance{
		TypeOfWork: input.TypeOfWork,
		Cost:       *input.Cost,
		VehicleID:  vehicle.ID,
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create maintenance record: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, prepareMaintenanceResponse(record))
}

// ListMaintenance returns maintenance records, newest first. Accepts
// an optional vehicle_id query filter; driver-role callers only see
// records for vehicles assigned to them.
func ListMaintenance(c *gin.Context) {
	query := config.DB.Model(&models.Maintenance{})

	if raw := c.Query("vehicle_id"); raw != "" {
		vehicleID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle_id format."})
			return
		}
		query = query.Where("vehicle_id = ?", uint(vehicleID))
	}

	if middleware.CallerRole(c) == models.RoleDriver {
		driver, err := callerDriver(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}
		if driver == nil {
			c.JSON(http.StatusOK, []gin.H{})
			return
		}
		query = query.Where("vehicle_id IN (?)",
			config.DB.Model(&models.Vehicle{}).Select("id").Where("driver_id = ?", driver.ID))
	}

	var records []models.Maintenance
	if err := query.Order("created_at desc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing maintenance records: " + err.Error()})
		return
	}

	payload := make([]gin.H, 0, len(records))
	for _, record := range records {
		payload = append(payload, prepareMaintenanceResponse(record))
	}
	c.JSON(http.StatusOK, payload)
}

func prepareMaintenanceResponse(record models.Maintenance) gin.H {
	return gin.H{
		"id":           record.ID,
		"type_of_work": record.TypeOfWork,
		"cost":         record.Cost,
		"vehicle_id":   record.VehicleID,
	}
}
