package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"eld_tracker/internal/controllers"
	"eld_tracker/internal/services"
)

func SetupRouter(auth *controllers.AuthController, trips *controllers.TripController, socket *controllers.SocketController, drivers *services.DriverService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r, auth)
	TripRoutes(r, trips, drivers)
	WebSocketRoutes(r, socket)

	return r
}
