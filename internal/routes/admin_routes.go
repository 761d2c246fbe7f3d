package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KiraTious/FleetTracker/internal/controllers"
	"github.com/KiraTious/FleetTracker/internal/middleware"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireRoles("admin"))
	{
		admin.GET("/stats", controllers.Stats)
	}
}
