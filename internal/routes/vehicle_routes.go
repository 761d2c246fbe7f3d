package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KiraTious/FleetTracker/internal/controllers"
	"github.com/KiraTious/FleetTracker/internal/middleware"
)

func VehicleRoutes(r *gin.Engine) {
	vehicles := r.Group("/vehicles")
	{
		vehicles.GET("", middleware.RequireAuth(), controllers.ListVehicles)
		vehicles.POST("", middleware.RequireRoles("admin", "manager"), controllers.CreateVehicle)
		vehicles.PATCH("/:id", middleware.RequireRoles("admin", "manager"), controllers.UpdateVehicle)
		vehicles.POST("/:id/assign-driver", middleware.RequireRoles("admin", "manager"), controllers.AssignDriver)
		vehicles.DELETE("/:id", middleware.RequireRoles("admin"), controllers.DeleteVehicle)
	}
}
