package routes

import (
	"reconai/internal/handlers"
	"reconai/internal/services"

	"github.com/gin-gonic/gin"
)

func InitScanRoutes(router *gin.RouterGroup, scanService services.ScanServiceMethods) {
	handlers := handlers.NewScanHandler(scanService)

	router.POST("/scan", handlers.StartScan)
	router.GET("/scan/:id", handlers.GetScanByID)
	router.GET("/scans", handlers.ListScans)
}
