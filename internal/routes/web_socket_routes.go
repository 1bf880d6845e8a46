package routes

import (
	"github.com/gin-gonic/gin"

	"eld_tracker/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, socket *controllers.SocketController) {
	r.GET("/ws/trips", socket.HandleTripSocket)
}
