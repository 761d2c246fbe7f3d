package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/models"
)

type createDriverInput struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	UserID        uint   `json:"user_id" binding:"required"`
}

// updateDriverInput defines the fields a client can send to update a
// driver's profile. Pointers distinguish "omitted" from zero values.
type updateDriverInput struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	LicenseNumber *string `json:"license_number"`
}

// CreateDriver attaches a driver profile to an existing driver-role
// user. One profile per user, license numbers unique fleet-wide.
func CreateDriver(c *gin.Context) {
	var input createDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var user models.User
	if err := tx.First(&user, input.UserID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}
	if user.Role != models.RoleDriver {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "referenced user does not have the driver role"})
		return
	}

	var existing models.Driver
	if err := tx.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "user already has a driver profile"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	if err := tx.Where("license_number = ?", input.LicenseNumber).First(&existing).Error; err == nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "a driver with this license number already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	driver := models.Driver{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		LicenseNumber: input.LicenseNumber,
		UserID:        user.ID,
	}
	if err := tx.Create(&driver).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a driver with this license number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create driver: " + err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             driver.ID,
		"first_name":     driver.FirstName,
		"last_name":      driver.LastName,
		"license_number": driver.LicenseNumber,
		"user_id":        driver.UserID,
	})
}

// ListDrivers fetches all driver profiles.
func ListDrivers(c *gin.Context) {
	var drivers []models.Driver
	if err := config.DB.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing drivers: " + err.Error()})
		return
	}

	payload := make([]gin.H, 0, len(drivers))
	for _, driver := range drivers {
		payload = append(payload, gin.H{
			"id":             driver.ID,
			"first_name":     driver.FirstName,
			"last_name":      driver.LastName,
			"license_number": driver.LicenseNumber,
			"user_id":        driver.UserID,
		})
	}
	c.JSON(http.StatusOK, payload)
}

// UpdateDriver allows modifying a driver's profile fields.
func UpdateDriver(c *gin.Context) {
	driverID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var driver models.Driver
	if err := config.DB.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var input updateDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	if input.FirstName != nil {
		driver.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		driver.LastName = *input.LastName
	}
	if input.LicenseNumber != nil && *input.LicenseNumber != driver.LicenseNumber {
		var dup models.Driver
		if err := tx.Where("license_number = ?", *input.LicenseNumber).First(&dup).Error; err == nil {
			tx.Rollback()
			c.JSON(http.StatusConflict, gin.H{"error": "a driver with this license number already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}
		driver.LicenseNumber = *input.LicenseNumber
	}

	if err := tx.Save(&driver).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a driver with this license number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update driver: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "driver updated"})
}

// DeleteDriver removes a driver profile. Routes hold hard references
// and block the deletion; vehicle assignments are soft references and
// are cleared in the same transaction.
func DeleteDriver(c *gin.Context) {
	driverID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var driver models.Driver
	if err := tx.First(&driver, driverID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var routeCount int64
	if err := tx.Model(&models.Route{}).Where("driver_id = ?", driver.ID).Count(&routeCount).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	if routeCount > 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "driver is still referenced by routes"})
		return
	}

	// Unassign any vehicles still pointing at this driver.
	if err := tx.Model(&models.Vehicle{}).Where("driver_id = ?", driver.ID).Update("driver_id", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear vehicle assignments: " + err.Error()})
		return
	}

	// Hard delete so the license number is free for reuse; a
	// soft-deleted row would keep holding the unique index.
	if err := tx.Unscoped().Delete(&driver).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete driver: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	logrus.WithField("driver_id", driver.ID).Info("driver profile deleted")
	c.JSON(http.StatusOK, gin.H{"message": "driver deleted"})
}
