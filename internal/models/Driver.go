// internal/models/driver.go
package models

import (
	"gorm.io/gorm"
)

// Driver is the profile attached to a driver-role user. Exactly one
// profile per user; the license number is unique fleet-wide.
type Driver struct {
	gorm.Model
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	LicenseNumber string `json:"license_number" gorm:"unique;not null"`
	UserID        uint   `json:"user_id" gorm:"unique"` // Foreign key to User
	User          User   `gorm:"foreignKey:UserID" json:"-"`
}
