package models

import "gorm.io/gorm"

// Valid account roles. Role is fixed at creation time; no operation
// changes it afterwards.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleDriver  = "driver"
)

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash, never the raw password
	Role     string `json:"role" gorm:"not null;default:driver"`

	// Present only for driver-role users.
	Driver *Driver `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"driver,omitempty"`
}
