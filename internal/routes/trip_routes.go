package routes

import (
	"github.com/gin-gonic/gin"

	"eld_tracker/internal/controllers"
	"eld_tracker/internal/middleware"
	"eld_tracker/internal/services"
)

func TripRoutes(r *gin.Engine, trips *controllers.TripController, drivers *services.DriverService) {
	group := r.Group("/trips")
	group.Use(middleware.RequireAuth(drivers))
	{
		group.POST("/create", trips.CreateTrip)
		group.GET("", trips.ListTrips)
		group.GET("/by-id", trips.GetTripByID)
		group.DELETE("/delete", trips.DeleteTrip)
		group.POST("/add-log-sheets", trips.AddLogSheets)
		group.PATCH("/update-log-sheets", trips.UpdateLogSheets)
	}
}
