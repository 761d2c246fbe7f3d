package controllers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	geom "github.com/twpayne/go-geom"
	"gorm.io/gorm"

	"github.com/KiraTious/FleetTracker/internal/config"
	"github.com/KiraTious/FleetTracker/internal/middleware"
	"github.com/KiraTious/FleetTracker/internal/models"
)

type createRouteInput struct {
	StartLocation string   `json:"start_location" binding:"required"`
	EndLocation   string   `json:"end_location" binding:"required"`
	Date          string   `json:"date" binding:"required"`
	Distance      *float64 `json:"distance" binding:"required"`
	VehicleID     uint     `json:"vehicle_id" binding:"required"`
	// Required for every caller; there is no implicit default driver.
	DriverID uint `json:"driver_id" binding:"required"`
}

// CreateRoute schedules a trip. Both the vehicle and the driver must
// exist, but the driver does not have to be the one assigned to the
// vehicle.
func CreateRoute(c *gin.Context) {
	var input createRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	routeDate, err := time.Parse(models.DateLayout, input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	if *input.Distance < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "distance must not be negative"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, input.VehicleID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	var driver models.Driver
	if err := tx.First(&driver, input.DriverID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	route := models.Route{
		StartLocation: input.StartLocation,
		EndLocation:   input.EndLocation,
		Date:          routeDate,
		Distance:      *input.Distance,
		VehicleID:     vehicle.ID,
		DriverID:      driver.ID,
	}
	if err := tx.Create(&route).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create route: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, prepareRouteResponse(route))
}

// ListRoutes returns scheduled trips, newest date first. The optional
// date query param scopes the list to one calendar day; the ledger
// itself never reads the wall clock. Driver-role callers only see
// their own trips.
func ListRoutes(c *gin.Context) {
	query := config.DB.Model(&models.Route{})

	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1))
	}

	if middleware.CallerRole(c) == models.RoleDriver {
		driver, err := callerDriver(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}
		if driver == nil {
			c.JSON(http.StatusOK, []gin.H{})
			return
		}
		query = query.Where("driver_id = ?", driver.ID)
	}

	var routes []models.Route
	if err := query.Order("date desc").Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}

	payload := make([]gin.H, 0, len(routes))
	for _, route := range routes {
		payload = append(payload, prepareRouteResponse(route))
	}
	c.JSON(http.StatusOK, payload)
}

// DeleteRoute removes a scheduled trip.
func DeleteRoute(c *gin.Context) {
	routeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var route models.Route
	if err := config.DB.First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := config.DB.Delete(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete route: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "route deleted"})
}

type plannerPoint struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

type plannerInput struct {
	Start plannerPoint   `json:"start" binding:"required"`
	Stops []plannerPoint `json:"stops" binding:"required,min=1,dive"`
}

const earthRadiusKm = 6371

// haversine returns the great-circle distance in kilometres between
// two coordinates in go-geom's X=lon, Y=lat order.
func haversine(a, b geom.Coord) float64 {
	phi1 := a.Y() * math.Pi / 180
	phi2 := b.Y() * math.Pi / 180
	dPhi := (b.Y() - a.Y()) * math.Pi / 180
	dLambda := (b.X() - a.X()) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// tourLength sums the leg distances of start -> stops... -> start.
func tourLength(start geom.Coord, stops []geom.Coord) float64 {
	total := 0.0
	prev := start
	for _, stop := range stops {
		total += haversine(prev, stop)
		prev = stop
	}
	return total + haversine(prev, start)
}

// permute calls fn with every ordering of coords. The stop counts here
// are tiny (a day's deliveries per vehicle), so exhaustive search is
// fine.
func permute(coords []geom.Coord, k int, fn func([]geom.Coord)) {
	if k == len(coords) {
		fn(coords)
		return
	}
	for i := k; i < len(coords); i++ {
		coords[k], coords[i] = coords[i], coords[k]
		permute(coords, k+1, fn)
		coords[k], coords[i] = coords[i], coords[k]
	}
}

// OptimalRoute orders a set of stops into the shortest round trip from
// the start point, by great-circle distance.
func OptimalRoute(c *gin.Context) {
	var input plannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and at least one stop are required"})
		return
	}

	start := geom.Coord{*input.Start.Lon, *input.Start.Lat}
	stops := make([]geom.Coord, 0, len(input.Stops))
	for _, stop := range input.Stops {
		stops = append(stops, geom.Coord{*stop.Lon, *stop.Lat})
	}

	var bestOrder []geom.Coord
	bestDistance := math.Inf(1)
	permute(stops, 0, func(order []geom.Coord) {
		if total := tourLength(start, order); total < bestDistance {
			bestDistance = total
			bestOrder = append(bestOrder[:0], order...)
		}
	})

	// Full tour geometry: start, the stops in optimal order, back to start.
	tourCoords := make([]geom.Coord, 0, len(bestOrder)+2)
	tourCoords = append(tourCoords, start)
	tourCoords = append(tourCoords, bestOrder...)
	tourCoords = append(tourCoords, start)
	tour := geom.NewLineString(geom.XY).MustSetCoords(tourCoords)

	ordered := make([]gin.H, 0, len(bestOrder))
	for _, coord := range bestOrder {
		ordered = append(ordered, gin.H{"lat": coord.Y(), "lon": coord.X()})
	}

	c.JSON(http.StatusOK, gin.H{
		"optimal_order":     ordered,
		"total_distance_km": math.Round(bestDistance*100) / 100,
		"tour":              tour.FlatCoords(),
	})
}

func prepareRouteResponse(route models.Route) gin.H {
	return gin.H{
		"id":             route.ID,
		"start_location": route.StartLocation,
		"end_location":   route.EndLocation,
		"date":           route.Date.Format(models.DateLayout),
		"distance":       route.Distance,
		"vehicle_id":     route.VehicleID,
		"driver_id":      route.DriverID,
	}
}
