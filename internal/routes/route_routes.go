package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KiraTious/FleetTracker/internal/controllers"
	"github.com/KiraTious/FleetTracker/internal/middleware"
)

func RouteRoutes(r *gin.Engine) {
	routes := r.Group("/routes")
	{
		routes.GET("", middleware.RequireAuth(), controllers.ListRoutes)
		routes.POST("", middleware.RequireRoles("admin", "manager"), controllers.CreateRoute)
		routes.POST("/optimal", middleware.RequireAuth(), controllers.OptimalRoute)
		routes.DELETE("/:id", middleware.RequireRoles("admin", "manager"), controllers.DeleteRoute)
	}
}
