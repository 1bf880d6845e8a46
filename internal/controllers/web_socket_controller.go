package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"eld_tracker/internal/middleware"
	"eld_tracker/internal/notify"
	"eld_tracker/internal/services"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// SocketController joins authenticated clients to their own driver channel
// so they receive trip_created events in real time.
type SocketController struct {
	hub     *notify.Hub
	drivers *services.DriverService
}

func NewSocketController(hub *notify.Hub, drivers *services.DriverService) *SocketController {
	return &SocketController{hub: hub, drivers: drivers}
}

// HandleTripSocket authenticates via the token query parameter, upgrades
// the connection and subscribes it to the caller's own channel only. The
// connection is read-only for the client; incoming frames are discarded.
func (sc *SocketController) HandleTripSocket(c *gin.Context) {
	tokenStr := c.Query("token")
	claims, err := middleware.ParseToken(tokenStr)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket connection attempt with bad token.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	driver, err := sc.drivers.ResolveActive(claims.Email)
	if err != nil {
		logrus.WithError(err).WithField("email", claims.Email).Warn("WebSocket connection attempt for unavailable account.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	channel := notify.DriverChannel(driver.Email)
	sc.hub.Register(channel, conn)
	defer sc.hub.Unregister(channel, conn)

	logrus.WithFields(logrus.Fields{
		"channel":  channel,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Trip WebSocket connection established.")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("channel", channel).Info("Trip WebSocket closed.")
			} else {
				logrus.WithError(err).WithField("channel", channel).Error("Error reading WebSocket message.")
			}
			break
		}
	}
}
