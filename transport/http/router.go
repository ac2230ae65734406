package http

import (
	"github.com/gin-gonic/gin"

	"github.com/squadlabs/zkconnect/service"
)

// SetupRouter sets up the Gin router for the demo login flow.
func SetupRouter(svc *service.ZkLoginService, keystorePath, redirectURL string) *gin.Engine {
	router := gin.Default()

	handlers := NewLoginHandlers(svc, keystorePath, redirectURL)

	router.GET("/login", handlers.Login)
	router.GET("/callback", handlers.Callback)
	router.POST("/session", handlers.Session)
	router.GET("/params", handlers.Params)
	router.POST("/logout", handlers.Logout)

	return router
}
