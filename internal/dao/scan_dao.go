package dao

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"reconai/internal/models"
	apperrors "reconai/pkg/errors"
)

type ScanDAO interface {
	CreateScan(scan *models.Scan) error
	CompleteScan(scanID string, results, analysis models.JSON, completedAt time.Time) error
	GetScanByID(scanID string) (*models.Scan, error)
	ListScans(limit int) ([]models.ScanSummary, error)
	Stats() (*models.Stats, error)
}

type scanDAO struct {
	db *gorm.DB
	// mu serializes writes; sqlite tolerates a single writer only, and the
	// handle is shared across concurrently completing scans.
	mu sync.Mutex
}

func NewScanDAO(db *gorm.DB) ScanDAO {
	return &scanDAO{db: db}
}

func (dao *scanDAO) CreateScan(scan *models.Scan) error {
	dao.mu.Lock()
	defer dao.mu.Unlock()

	if err := dao.db.Create(scan).Error; err != nil {
		return apperrors.NewPersistenceError("create", err)
	}
	return nil
}

func (dao *scanDAO) CompleteScan(scanID string, results, analysis models.JSON, completedAt time.Time) error {
	dao.mu.Lock()
	defer dao.mu.Unlock()

	result := dao.db.Model(&models.Scan{}).
		Where("scan_id = ?", scanID).
		Updates(map[string]interface{}{
			"status":       models.StatusCompleted,
			"completed_at": completedAt,
			"results":      results,
			"analysis":     analysis,
		})
	if result.Error != nil {
		return apperrors.NewPersistenceError("complete", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewPersistenceError("complete", apperrors.ErrScanNotFound)
	}
	return nil
}

func (dao *scanDAO) GetScanByID(scanID string) (*models.Scan, error) {
	var scan models.Scan
	if err := dao.db.Where("scan_id = ?", scanID).First(&scan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScanNotFound
		}
		return nil, err
	}
	return &scan, nil
}

func (dao *scanDAO) ListScans(limit int) ([]models.ScanSummary, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var summaries []models.ScanSummary
	err := dao.db.Model(&models.Scan{}).
		Select("scan_id", "target", "scan_type", "status", "created_at", "completed_at").
		Order("created_at desc").
		Limit(limit).
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (dao *scanDAO) Stats() (*models.Stats, error) {
	stats := &models.Stats{LastUpdated: time.Now().UTC()}

	if err := dao.db.Model(&models.Scan{}).Count(&stats.TotalScans).Error; err != nil {
		return nil, err
	}
	if err := dao.db.Model(&models.Scan{}).
		Where("status = ?", models.StatusCompleted).
		Count(&stats.CompletedScans).Error; err != nil {
		return nil, err
	}
	if err := dao.db.Model(&models.Finding{}).Count(&stats.TotalFindings).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
