package models

import (
	"gorm.io/gorm"
)

// Maintenance is an append-only work record for a vehicle. Rows are
// never updated after creation.
type Maintenance struct {
	gorm.Model
	TypeOfWork string  `json:"type_of_work"`
	Cost       float64 `json:"cost"` // non-negative, validated at creation
	VehicleID  uint    `json:"vehicle_id" gorm:"index"`
	Vehicle    Vehicle `gorm:"foreignKey:VehicleID" json:"-"`
}
