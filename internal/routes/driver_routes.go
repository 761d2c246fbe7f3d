package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KiraTious/FleetTracker/internal/controllers"
	"github.com/KiraTious/FleetTracker/internal/middleware"
)

func DriverRoutes(r *gin.Engine) {
	drivers := r.Group("/drivers")
	{
		drivers.GET("", middleware.RequireRoles("admin", "manager"), controllers.ListDrivers)
		drivers.POST("", middleware.RequireRoles("admin", "manager"), controllers.CreateDriver)
		drivers.PATCH("/:id", middleware.RequireRoles("admin", "manager"), controllers.UpdateDriver)
		drivers.DELETE("/:id", middleware.RequireRoles("admin"), controllers.DeleteDriver)
	}

	// Driver portal: daily schedule for the authenticated driver.
	portal := r.Group("/driver")
	portal.Use(middleware.RequireRoles("driver"))
	{
		portal.GET("/today", controllers.TodayRoutes)
	}
}
