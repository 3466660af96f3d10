package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reconai/internal/analysis"
	"reconai/internal/dao"
	"reconai/internal/intel"
	"reconai/internal/models"
	"reconai/internal/notification"
	apperrors "reconai/pkg/errors"
	"reconai/pkg/logger"
)

// ScanRequest is a validated request to run one scan.
type ScanRequest struct {
	Target     string
	ScanKind   string
	TargetKind string
	Modules    []string
	State      string
	DOB        string
}

// ScanResponse is the aggregate result handed back to the caller once the
// scan reaches its terminal state.
type ScanResponse struct {
	ScanID     string           `json:"scan_id"`
	Target     string           `json:"target"`
	TargetKind string           `json:"target_type"`
	Status     string           `json:"status"`
	Results    *intel.Report    `json:"results"`
	Analysis   *analysis.Result `json:"analysis"`
	Timestamp  time.Time        `json:"timestamp"`
}

type ScanServiceMethods interface {
	RunScan(ctx context.Context, req ScanRequest) (*ScanResponse, error)
	GetScanByID(scanID string) (*models.Scan, error)
	ListScans(limit int) ([]models.ScanSummary, error)
	Stats() (*models.Stats, error)
}

// DefaultScanTimeout bounds a whole scan including analysis.
const DefaultScanTimeout = 5 * time.Minute

type scanService struct {
	scanDao     dao.ScanDAO
	registry    *intel.Registry
	dispatcher  *intel.Dispatcher
	analyzer    analysis.Client
	queue       *ScanQueue
	notifier    *notification.Client
	scanTimeout time.Duration
	logger      *logger.Logger
}

type ScanServiceOpt func(*scanService)

func WithQueue(q *ScanQueue) ScanServiceOpt {
	return func(s *scanService) {
		s.queue = q
	}
}

func WithNotifier(n *notification.Client) ScanServiceOpt {
	return func(s *scanService) {
		s.notifier = n
	}
}

func WithScanTimeout(d time.Duration) ScanServiceOpt {
	return func(s *scanService) {
		if d > 0 {
			s.scanTimeout = d
		}
	}
}

func NewScanService(scanDao dao.ScanDAO, registry *intel.Registry, dispatcher *intel.Dispatcher, analyzer analysis.Client, opts ...ScanServiceOpt) ScanServiceMethods {
	s := &scanService{
		scanDao:     scanDao,
		registry:    registry,
		dispatcher:  dispatcher,
		analyzer:    analyzer,
		scanTimeout: DefaultScanTimeout,
		logger:      logger.NewLogger(logrus.InfoLevel),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.queue == nil {
		s.queue = NewScanQueue(1)
	}
	return s
}

// RunScan drives one scan through its lifecycle: create the record as
// running, fan out to the requested modules, aggregate, analyze, and persist
// the terminal state. Module failures become error entries in the result;
// only a failed create or final write surfaces to the caller.
func (s *scanService) RunScan(ctx context.Context, req ScanRequest) (*ScanResponse, error) {
	if err := normalizeRequest(&req); err != nil {
		return nil, err
	}

	modules, err := s.registry.Resolve(req.Modules)
	if err != nil {
		return nil, err
	}

	scan := &models.Scan{
		ScanID:     uuid.New().String(),
		Target:     req.Target,
		TargetKind: req.TargetKind,
		ScanKind:   req.ScanKind,
		Status:     models.StatusRunning,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.scanDao.CreateScan(scan); err != nil {
		s.logger.WithError(err).Error("Failed to create scan record")
		return nil, err
	}

	log := s.logger.WithScan(scan.ScanID, scan.Target)
	log.WithField("modules", req.Modules).Info("Scan started")

	target := intel.Target{
		Value: req.Target,
		Kind:  req.TargetKind,
		State: req.State,
		DOB:   req.DOB,
	}

	started := time.Now()
	var report *intel.Report
	var result *analysis.Result

	err = s.queue.Execute(ctx, func() error {
		scanCtx, cancel := context.WithTimeout(ctx, s.scanTimeout)
		defer cancel()

		report = s.dispatcher.Dispatch(scanCtx, modules, target)
		result = s.analyzer.Analyze(scanCtx, req.Target, report)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resultsJSON, err := json.Marshal(report)
	if err != nil {
		return nil, apperrors.NewPersistenceError("encode results", err)
	}
	analysisJSON, err := json.Marshal(result)
	if err != nil {
		return nil, apperrors.NewPersistenceError("encode analysis", err)
	}

	completedAt := time.Now().UTC()
	if err := s.scanDao.CompleteScan(scan.ScanID, models.JSON(resultsJSON), models.JSON(analysisJSON), completedAt); err != nil {
		// The record stays in running state; only external inspection can
		// recover it.
		log.WithError(err).Error("Failed to persist scan results")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"duration": time.Since(started).String(),
		"failed":   len(report.Errors()),
	}).Info("Scan completed")

	s.notify(scan, report, result, time.Since(started), completedAt)

	return &ScanResponse{
		ScanID:     scan.ScanID,
		Target:     scan.Target,
		TargetKind: scan.TargetKind,
		Status:     models.StatusCompleted,
		Results:    report,
		Analysis:   result,
		Timestamp:  completedAt,
	}, nil
}

func (s *scanService) GetScanByID(scanID string) (*models.Scan, error) {
	return s.scanDao.GetScanByID(scanID)
}

func (s *scanService) ListScans(limit int) ([]models.ScanSummary, error) {
	return s.scanDao.ListScans(limit)
}

func (s *scanService) Stats() (*models.Stats, error) {
	return s.scanDao.Stats()
}

// normalizeRequest applies defaults and pins the module set for person
// targets, which always dispatch exactly the person module.
func normalizeRequest(req *ScanRequest) error {
	if req.Target == "" {
		return apperrors.ErrInvalidTarget
	}

	switch req.ScanKind {
	case "":
		req.ScanKind = models.ScanKindFull
	case models.ScanKindFull, models.ScanKindQuick, models.ScanKindCustom:
	default:
		return fmt.Errorf("invalid scan type %q", req.ScanKind)
	}

	switch req.TargetKind {
	case "":
		req.TargetKind = models.TargetKindDomain
	case models.TargetKindDomain, models.TargetKindPerson:
	default:
		return fmt.Errorf("invalid target type %q", req.TargetKind)
	}

	if req.TargetKind == models.TargetKindPerson {
		req.Modules = []string{intel.ModulePerson}
		return nil
	}

	if len(req.Modules) == 0 {
		req.Modules = append([]string(nil), intel.DomainModules...)
	}
	return nil
}

func (s *scanService) notify(scan *models.Scan, report *intel.Report, result *analysis.Result, duration time.Duration, completedAt time.Time) {
	if s.notifier == nil {
		return
	}

	summary := notification.ScanSummary{
		ScanID:      scan.ScanID,
		Target:      scan.Target,
		Status:      models.StatusCompleted,
		ModuleCount: report.Len(),
		FailedCount: len(report.Errors()),
		RiskScore:   result.RiskScore,
		Duration:    duration,
		CompletedAt: completedAt,
	}
	if p, ok := report.Payload(intel.ModuleNetwork); ok {
		if network, ok := p.(*intel.NetworkPayload); ok {
			summary.OpenPorts = len(network.OpenPorts)
		}
	}

	go func() {
		if err := s.notifier.ScanCompleted(summary); err != nil {
			s.logger.WithError(err).Warn("Scan notification failed")
		}
	}()
}
