package main

import (
	"log"
	"net/http"

	"eld_tracker/internal/config"
	"eld_tracker/internal/controllers"
	"eld_tracker/internal/logger"
	"eld_tracker/internal/middleware"
	"eld_tracker/internal/notify"
	"eld_tracker/internal/routes"
	"eld_tracker/internal/services"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()
	db := config.GetDB()

	// Notification hub for trip_created pushes
	hub := notify.NewHub()

	drivers := services.NewDriverService(db)
	sheets := services.NewLogSheetService(db)
	trips := services.NewTripService(db, drivers, sheets, hub)

	auth := controllers.NewAuthController(drivers)
	trip := controllers.NewTripController(trips, sheets)
	socket := controllers.NewSocketController(hub, drivers)

	r := routes.SetupRouter(auth, trip, socket, drivers)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
