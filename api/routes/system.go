package routes

import (
	"reconai/internal/handlers"
	"reconai/internal/services"

	"github.com/gin-gonic/gin"
)

func InitSystemRoutes(router *gin.RouterGroup, scanService services.ScanServiceMethods) {
	handlers := handlers.NewSystemHandler(scanService)

	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)
	router.GET("/export/:id", handlers.Export)
}
