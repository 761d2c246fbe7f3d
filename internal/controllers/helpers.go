package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/middleware"
	"github.com/KiraTious/FleetTracker/internal/models"
)

// isUniqueViolation reports whether err is a postgres duplicate-key
// error. Handlers pre-check uniqueness inside their transaction; this
// catches the race where two concurrent creates both pass the check and
// only one survives the unique index.
func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// parseIDParam reads a numeric URL parameter, writing a 400 response
// itself when the value is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format."})
		return 0, false
	}
	return uint(id), true
}

// callerDriver resolves the Driver profile of the authenticated user,
// or nil when the caller has no profile. Used by the list endpoints
// that narrow driver-role results to the caller's own records.
func callerDriver(c *gin.Context) (*models.Driver, error) {
	userID := middleware.CallerID(c)
	var driver models.Driver
	if err := config.DB.Where("user_id = ?", userID).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &driver, nil
}
