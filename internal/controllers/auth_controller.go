package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/middleware"
	"github.com/KiraTious/FleetTracker/internal/models"
)

// driverPayload is the optional nested profile accepted when an admin
// provisions a driver-role account in one call.
type driverPayload struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	LicenseNumber string `json:"license_number"`
}

type createUserInput struct {
	Username string         `json:"username" binding:"required"`
	Password string         `json:"password" binding:"required"`
	Role     string         `json:"role"`
	Driver   *driverPayload `json:"driver"`
}

// dummyHash is a valid bcrypt hash of a throwaway value, compared
// against when a login names an unknown user.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type updateUserInput struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"` // always rejected, see UpdateUser
}

// Login authenticates a username/password pair and issues a token
// bound to the account's role.
func Login(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a hash comparison anyway so response timing does not
			// reveal whether the username exists.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(body.Password))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"role":         user.Role,
	})
}

// Me returns the authenticated user's profile, with the driver profile
// attached for driver-role accounts.
func Me(c *gin.Context) {
	userID := middleware.CallerID(c)

	var user models.User
	if err := config.DB.Preload("Driver").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, prepareUserResponse(user))
}

// CreateUser provisions an account, and for driver-role accounts
// optionally the driver profile in the same transaction.
func CreateUser(c *gin.Context) {
	var input createUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Driver != nil && role != models.RoleDriver {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a driver profile is only valid for driver-role users"})
		return
	}
	if role == models.RoleDriver && input.Driver != nil && input.Driver.LicenseNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "license_number is required for the driver profile"})
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var existing models.User
	if err := tx.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "username already in use"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	user := models.User{
		Username: input.Username,
		Password: hashedPassword,
		Role:     role,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	if role == models.RoleDriver && input.Driver != nil {
		var dup models.Driver
		if err := tx.Where("license_number = ?", input.Driver.LicenseNumber).First(&dup).Error; err == nil {
			tx.Rollback()
			c.JSON(http.StatusConflict, gin.H{"error": "a driver with this license number already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}

		driver := models.Driver{
			FirstName:     input.Driver.FirstName,
			LastName:      input.Driver.LastName,
			LicenseNumber: input.Driver.LicenseNumber,
			UserID:        user.ID,
		}
		if err := tx.Create(&driver).Error; err != nil {
			tx.Rollback()
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "a driver with this license number already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create driver profile: " + err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"created_at": user.CreatedAt.Format(time.RFC3339),
	})
}

// ListUsers returns every account, newest first.
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Preload("Driver").Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing users: " + err.Error()})
		return
	}

	payload := make([]gin.H, 0, len(users))
	for _, user := range users {
		payload = append(payload, prepareUserResponse(user))
	}
	c.JSON(http.StatusOK, payload)
}

// UpdateUser changes an account's username and/or password. Role is
// immutable: a role field in the body is an error, not a no-op.
func UpdateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Role != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role cannot be changed after creation"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	if input.Username != nil && *input.Username != user.Username {
		var existing models.User
		if err := tx.Where("username = ?", *input.Username).First(&existing).Error; err == nil {
			tx.Rollback()
			c.JSON(http.StatusConflict, gin.H{"error": "username already in use"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}
		user.Username = *input.Username
	}
	if input.Password != nil {
		hashed, err := hashPassword(*input.Password)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}
		user.Password = hashed
	}

	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// DeleteUser removes an account. Admin accounts and accounts still
// owning a driver profile are protected.
func DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if user.Role == models.RoleAdmin {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "admin accounts cannot be deleted"})
		return
	}

	var driverCount int64
	if err := tx.Model(&models.Driver{}).Where("user_id = ?", user.ID).Count(&driverCount).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	if driverCount > 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "user still owns a driver profile"})
		return
	}

	// Hard delete so the username is free for reuse; a soft-deleted row
	// would keep holding the unique index.
	if err := tx.Unscoped().Delete(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = models.RoleDriver
	}
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleDriver:
		return role, nil
	default:
		return "", errors.New("invalid role")
	}
}

// prepareUserResponse constructs the JSON response map for the user,
// including the nested driver profile when present.
func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"driver":     nil,
		"created_at": user.CreatedAt.Format(time.RFC3339),
		"updated_at": user.UpdatedAt.Format(time.RFC3339),
	}

	if user.Driver != nil {
		responseUser["driver"] = gin.H{
			"id":             user.Driver.ID,
			"first_name":     user.Driver.FirstName,
			"last_name":      user.Driver.LastName,
			"license_number": user.Driver.LicenseNumber,
		}
	}
	return responseUser
}
