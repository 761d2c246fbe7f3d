package models

import (
	"time"

	"gorm.io/gorm"
)

// Route is a scheduled trip for a vehicle/driver pair. Both references
// must exist at creation time; the route's driver does not have to be
// the one currently assigned to the vehicle (trips may be dispatched
// ad hoc).
type Route struct {
	gorm.Model
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	Date          time.Time `json:"date" gorm:"index"`
	Distance      float64   `json:"distance"` // kilometres, non-negative
	VehicleID     uint      `json:"vehicle_id" gorm:"index"`
	DriverID      uint      `json:"driver_id" gorm:"index"`
	Vehicle       Vehicle   `gorm:"foreignKey:VehicleID" json:"-"`
	Driver        Driver    `gorm:"foreignKey:DriverID" json:"-"`
}

// DateLayout is the wire format for route dates.
const DateLayout = "2006-01-02"
