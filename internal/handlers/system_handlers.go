package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"reconai/internal/services"
	apperrors "reconai/pkg/errors"
	"reconai/pkg/logger"
)

const serviceVersion = "2.0.0"

type SystemHandler struct {
	scanService services.ScanServiceMethods
	logger      *logger.Logger
}

func NewSystemHandler(scanService services.ScanServiceMethods) *SystemHandler {
	return &SystemHandler{scanService: scanService, logger: logger.NewLogger(logrus.InfoLevel)}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(200, HealthResponse{
		Status:    "healthy",
		Service:   "reconai",
		Version:   serviceVersion,
		Features:  []string{"domain_intel", "person_intel"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandler) Stats(c *gin.Context) {
	stats, err := h.scanService.Stats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load stats")
		c.JSON(500, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(200, stats)
}

// Export serves a stored scan in a machine-readable format. JSON is the
// default; yaml is available; anything else is not implemented.
func (h *SystemHandler) Export(c *gin.Context) {
	scanID := c.Param("id")

	scan, err := h.scanService.GetScanByID(scanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrScanNotFound) {
			c.JSON(404, gin.H{"error": "Scan not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to load scan for export")
		c.JSON(500, gin.H{"error": "Failed to export scan"})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.Header("Content-Disposition", "attachment; filename="+scanID+".json")
		c.JSON(200, scan)
	case "yaml":
		// Round-trip through JSON so the blob columns export as structured
		// data instead of raw bytes.
		raw, err := json.Marshal(scan)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to export scan"})
			return
		}
		var generic map[string]interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			c.JSON(500, gin.H{"error": "Failed to export scan"})
			return
		}
		encoded, err := yaml.Marshal(generic)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to export scan"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+scanID+".yaml")
		c.Data(200, "application/x-yaml", encoded)
	default:
		c.JSON(501, gin.H{"error": "Export format not implemented"})
	}
}
