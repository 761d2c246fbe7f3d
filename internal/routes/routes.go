package routes

import (
	"github.com/gin-gonic/gin"

	ginlog "github.com/gin-contrib/logger"
)

// SetupRouter registers every resource surface. The middleware chosen
// per route is the whole authorization story; handlers only narrow
// result sets by caller identity, never re-check roles.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	DriverRoutes(r)
	VehicleRoutes(r)
	MaintenanceRoutes(r)
	RouteRoutes(r)
	AdminRoutes(r)

	return r
}
