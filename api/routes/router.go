package routes

import (
	"reconai/internal/services"

	"github.com/gin-gonic/gin"
)

func InitRouter(scanService services.ScanServiceMethods) *gin.Engine {
	router := gin.Default()

	// REST APIs
	api := router.Group("/api")
	{
		InitScanRoutes(api, scanService)
		InitSystemRoutes(api, scanService)
	}

	return router
}
