package routes

import (
	"github.com/gin-gonic/gin"

	"eld_tracker/internal/controllers"
)

func AuthRoutes(r *gin.Engine, auth *controllers.AuthController) {
	group := r.Group("/auth")
	{
		group.POST("/register", auth.Register)
		group.POST("/login", auth.Login)
		group.POST("/logout", auth.Logout)
		group.POST("/verify-token", auth.VerifyToken)
	}
}
