package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reconai/internal/services"
	apperrors "reconai/pkg/errors"
	"reconai/pkg/logger"
)

type ScanHandler struct {
	scanService services.ScanServiceMethods
	logger      *logger.Logger
}

func NewScanHandler(scanService services.ScanServiceMethods) *ScanHandler {
	return &ScanHandler{scanService: scanService, logger: logger.NewLogger(logrus.InfoLevel)}
}

// StartScan runs a scan synchronously and returns the full aggregate
// response. Module failures come back inside the results map; only an
// invalid request or a persistence failure produces an error status.
func (h *ScanHandler) StartScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to bind scan request")
		c.JSON(400, gin.H{"error": "Invalid request payload"})
		return
	}

	h.logger.WithFields(logger.Fields{
		"target":      req.Target,
		"target_type": req.TargetKind,
		"modules":     req.Modules,
	}).Info("Starting scan")

	response, err := h.scanService.RunScan(c.Request.Context(), services.ScanRequest{
		Target:     req.Target,
		ScanKind:   req.ScanKind,
		TargetKind: req.TargetKind,
		Modules:    req.Modules,
		State:      req.State,
		DOB:        req.DOB,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTarget) || errors.Is(err, apperrors.ErrUnknownModule) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Scan failed")
		c.JSON(500, gin.H{"error": "Scan failed"})
		return
	}

	c.JSON(200, response)
}

func (h *ScanHandler) GetScanByID(c *gin.Context) {
	scanID := c.Param("id")

	scan, err := h.scanService.GetScanByID(scanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrScanNotFound) {
			c.JSON(404, gin.H{"error": "Scan not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to get scan")
		c.JSON(500, gin.H{"error": "Failed to get scan"})
		return
	}
	if scan == nil {
		c.JSON(404, gin.H{"error": "Scan not found"})
		return
	}

	c.JSON(200, scan)
}

func (h *ScanHandler) ListScans(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(400, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	scans, err := h.scanService.ListScans(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list scans")
		c.JSON(500, gin.H{"error": "Failed to list scans"})
		return
	}

	c.JSON(200, gin.H{"scans": scans})
}
