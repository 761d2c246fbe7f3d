// internal/models/vehicle.go
package models

import (
	"gorm.io/gorm"
)

// Vehicle carries an optional driver assignment. DriverID is a soft
// reference: nil means unassigned, and driver removal clears the link
// rather than leaving it dangling.
type Vehicle struct {
	gorm.Model
	Brand     string  `json:"brand"`
	VehModel  string  `json:"model" gorm:"column:model"`
	RegNumber string  `json:"reg_number" gorm:"unique;not null"`
	DriverID  *uint   `json:"driver_id" gorm:"index"`
	Driver    *Driver `gorm:"foreignKey:DriverID" json:"-"`
}
