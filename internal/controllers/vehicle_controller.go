package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/middleware"
	"github.com/KiraTious/FleetTracker/internal/models"
)

type createVehicleInput struct {
	Brand     string `json:"brand" binding:"required"`
	Model     string `json:"model" binding:"required"`
	RegNumber string `json:"reg_number" binding:"required"`
}

type updateVehicleInput struct {
	Brand     *string `json:"brand"`
	Model     *string `json:"model"`
	RegNumber *string `json:"reg_number"`
}

// CreateVehicle registers a new vehicle. New vehicles start unassigned.
func CreateVehicle(c *gin.Context) {
	var input createVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var existing models.Vehicle
	if err := tx.Where("reg_number = ?", input.RegNumber).First(&existing).Error; err == nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "a vehicle with this registration number already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	vehicle := models.Vehicle{
		Brand:     input.Brand,
		VehModel:  input.Model,
		RegNumber: input.RegNumber,
	}
	if err := tx.Create(&vehicle).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a vehicle with this registration number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, prepareVehicleResponse(vehicle))
}

// ListVehicles returns the fleet. Driver-role callers only see the
// vehicles currently assigned to them.
func ListVehicles(c *gin.Context) {
	query := config.DB.Model(&models.Vehicle{})

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
		query = query.Where("driver_id = ?", driver.ID)
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing vehicles: " + err.Error()})
		return
	}

	payload := make([]gin.H, 0, len(vehicles))
	for _, vehicle := range vehicles {
		payload = append(payload, prepareVehicleResponse(vehicle))
	}
	c.JSON(http.StatusOK, payload)
}

// UpdateVehicle modifies a vehicle's descriptive fields.
func UpdateVehicle(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var input updateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	if input.Brand != nil {
		vehicle.Brand = *input.Brand
	}
	if input.Model != nil {
		vehicle.VehModel = *input.Model
	}
	if input.RegNumber != nil && *input.RegNumber != vehicle.RegNumber {
		var dup models.Vehicle
		if err := tx.Where("reg_number = ?", *input.RegNumber).First(&dup).Error; err == nil {
			tx.Rollback()
			c.JSON(http.StatusConflict, gin.H{"error": "a vehicle with this registration number already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}
		vehicle.RegNumber = *input.RegNumber
	}

	if err := tx.Save(&vehicle).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a vehicle with this registration number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update vehicle: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, prepareVehicleResponse(vehicle))
}

// AssignDriver links a driver to a vehicle. Re-assigning the same
// driver is a no-op success; a different driver overwrites the link.
func AssignDriver(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		DriverID uint `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driver_id is required"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, vehicleID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var driver models.Driver
	if err := tx.First(&driver, input.DriverID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if vehicle.DriverID == nil || *vehicle.DriverID != driver.ID {
		vehicle.DriverID = &driver.ID
		if err := tx.Save(&vehicle).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not assign driver: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{"vehicle_id": vehicle.ID, "driver_id": driver.ID}).Info("driver assigned to vehicle")
	c.JSON(http.StatusOK, prepareVehicleResponse(vehicle))
}

// DeleteVehicle removes a vehicle once nothing references it.
func DeleteVehicle(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, vehicleID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var refs int64
	if err := tx.Model(&models.Route{}).Where("vehicle_id = ?", vehicle.ID).Count(&refs).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	if refs > 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "vehicle is still referenced by routes"})
		return
	}
	if err := tx.Model(&models.Maintenance{}).Where("vehicle_id = ?", vehicle.ID).Count(&refs).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	if refs > 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "vehicle still has maintenance records"})
		return
	}

	// Hard delete so the registration number is free for reuse; a
	// soft-deleted row would keep holding the unique index.
	if err := tx.Unscoped().Delete(&vehicle).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete vehicle: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}

func prepareVehicleResponse(vehicle models.Vehicle) gin.H {
	return gin.H{
		"id":         vehicle.ID,
		"brand":      vehicle.Brand,
		"model":      vehicle.VehModel,
		"reg_number": vehicle.RegNumber,
		"driver_id":  vehicle.DriverID,
	}
}
