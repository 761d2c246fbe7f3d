package main

import (
	"log"
	"net/http"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/logger"
	"github.com/KiraTious/FleetTracker/internal/middleware"
	"github.com/KiraTious/FleetTracker/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router (recovery + request logging included)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
