package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KiraTious/FleetTracker/internal/controllers"
	"github.com/KiraTious/FleetTracker/internal/middleware"
)

func MaintenanceRoutes(r *gin.Engine) {
	maintenance := r.Group("/maintenance")
	{
		maintenance.GET("", middleware.RequireAuth(), controllers.ListMaintenance)
		maintenance.POST("", middleware.RequireRoles("admin", "manager"), controllers.CreateMaintenance)
	}
}
