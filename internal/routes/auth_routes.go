package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KiraTious/FleetTracker/internal/controllers"
	"github.com/KiraTious/FleetTracker/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.GET("/me", middleware.RequireAuth(), controllers.Me)

		users := auth.Group("/users")
		users.Use(middleware.RequireRoles("admin"))
		{
			users.POST("", controllers.CreateUser)
			users.GET("", controllers.ListUsers)
			users.PATCH("/:id", controllers.UpdateUser)
			users.DELETE("/:id", controllers.DeleteUser)
		}
	}
}
