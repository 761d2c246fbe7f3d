package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/models"
)

// Stats aggregates entity counts across the registries. Read-only.
func Stats(c *gin.Context) {
	var users, drivers, vehicles, routes int64

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &users},
		{&models.Driver{}, &drivers},
		{&models.Vehicle{}, &vehicles},
		{&models.Route{}, &routes},
	}
	for _, count := range counts {
		if err := config.DB.Model(count.model).Count(count.dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing stats: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users":    users,
		"drivers":  drivers,
		"vehicles": vehicles,
		"routes":   routes,
	})
}
