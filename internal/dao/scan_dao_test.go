package dao

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reconai/internal/models"
	apperrors "reconai/pkg/errors"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Scan{}, &models.Finding{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func seedScan(t *testing.T, dao ScanDAO, scanID, target string) *models.Scan {
	t.Helper()

	scan := &models.Scan{
		ScanID:    scanID,
		Target:    target,
		ScanKind:  models.ScanKindFull,
		Status:    models.StatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	if err := dao.CreateScan(scan); err != nil {
		t.Fatalf("CreateScan failed: %v", err)
	}
	return scan
}

func TestScanDAO_CreateAndGet(t *testing.T) {
	dao := NewScanDAO(testDB(t))
	seedScan(t, dao, "scan-1", "example.com")

	got, err := dao.GetScanByID("scan-1")
	if err != nil {
		t.Fatalf("GetScanByID failed: %v", err)
	}
	if got.Target != "example.com" || got.Status != models.StatusRunning {
		t.Errorf("Unexpected scan: %+v", got)
	}
	if got.CompletedAt != nil {
		t.Error("Running scan must not have a completion time")
	}
}

func TestScanDAO_GetUnknownScan(t *testing.T) {
	dao := NewScanDAO(testDB(t))

	_, err := dao.GetScanByID("missing")
	if !stderrors.Is(err, apperrors.ErrScanNotFound) {
		t.Errorf("Expected ErrScanNotFound, got %v", err)
	}
}

func TestScanDAO_CompleteScan(t *testing.T) {
	dao := NewScanDAO(testDB(t))
	seedScan(t, dao, "scan-1", "example.com")

	completedAt := time.Now().UTC()
	results := models.JSON(`{"threat":{"target":"example.com"}}`)
	analysis := models.JSON(`{"risk_score":42}`)

	if err := dao.CompleteScan("scan-1", results, analysis, completedAt); err != nil {
		t.Fatalf("CompleteScan failed: %v", err)
	}

	got, err := dao.GetScanByID("scan-1")
	if err != nil {
		t.Fatalf("GetScanByID failed: %v", err)
	}
	if got.Status != models.StatusCompleted {
		t.Errorf("Expected completed status, got %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("Completed scan must record its completion time")
	}
	if string(got.Results) != string(results) {
		t.Errorf("Results not persisted: %s", got.Results)
	}
	if string(got.Analysis) != string(analysis) {
		t.Errorf("Analysis not persisted: %s", got.Analysis)
	}
}

func TestScanDAO_CompleteUnknownScan(t *testing.T) {
	dao := NewScanDAO(testDB(t))

	err := dao.CompleteScan("missing", models.JSON(`{}`), models.JSON(`{}`), time.Now())
	if err == nil {
		t.Fatal("Expected error completing unknown scan")
	}

	var pErr *apperrors.PersistenceError
	if !stderrors.As(err, &pErr) {
		t.Errorf("Expected PersistenceError, got %T", err)
	}
	if !stderrors.Is(err, apperrors.ErrScanNotFound) {
		t.Errorf("Expected wrapped ErrScanNotFound, got %v", err)
	}
}

func TestScanDAO_ListScans(t *testing.T) {
	dao := NewScanDAO(testDB(t))

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"scan-1", "scan-2", "scan-3"} {
		scan := &models.Scan{
			ScanID:    id,
			Target:    "example.com",
			Status:    models.StatusRunning,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := dao.CreateScan(scan); err != nil {
			t.Fatalf("CreateScan failed: %v", err)
		}
	}

	summaries, err := dao.ListScans(2)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	// Newest first.
	if summaries[0].ScanID != "scan-3" || summaries[1].ScanID != "scan-2" {
		t.Errorf("Unexpected order: %s, %s", summaries[0].ScanID, summaries[1].ScanID)
	}
}

func TestScanDAO_Stats(t *testing.T) {
	dao := NewScanDAO(testDB(t))

	seedScan(t, dao, "scan-1", "example.com")
	seedScan(t, dao, "scan-2", "example.org")
	if err := dao.CompleteScan("scan-2", models.JSON(`{}`), models.JSON(`{}`), time.Now()); err != nil {
		t.Fatalf("CompleteScan failed: %v", err)
	}

	stats, err := dao.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalScans != 2 {
		t.Errorf("Expected 2 total scans, got %d", stats.TotalScans)
	}
	if stats.CompletedScans != 1 {
		t.Errorf("Expected 1 completed scan, got %d", stats.CompletedScans)
	}
	if stats.TotalFindings != 0 {
		t.Errorf("Expected 0 findings, got %d", stats.TotalFindings)
	}
}
