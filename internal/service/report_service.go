package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
	"github.com/central-adp/central-admin-api/pkg/export"
	"github.com/central-adp/central-admin-api/pkg/jobs"
	"github.com/central-adp/central-admin-api/pkg/storage"
)

const reportJobType = "stock_metrics_export"

var stockReportHeaders = []string{
	"User Code", "Username", "Total Orders", "Total Litres", "Average Daily Usage",
}

// ReportService generates stock-metrics exports asynchronously. Jobs are
// tracked in memory: a restart forgets queued work, which is acceptable for
// operator-initiated exports that can simply be requested again.
type ReportService struct {
	metrics   *InventoryService
	queue     *jobs.Queue
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	retention time.Duration

	janitorCancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*models.ReportJob
}

// NewReportService constructs the report pipeline and its worker queue. Call
// Start before accepting requests and Stop on shutdown.
func NewReportService(metrics *InventoryService, store *storage.LocalStorage, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger, workers, retries int, retention time.Duration) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ReportService{
		metrics:   metrics,
		store:     store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		retention: retention,
		jobs:      make(map[string]*models.ReportJob),
	}
	s.queue = jobs.NewQueue("reports", s.process, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool and, when a retention TTL is set, a janitor
// that prunes old export files.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	if s.retention > 0 {
		var janitorCtx context.Context
		janitorCtx, s.janitorCancel = context.WithCancel(ctx)
		go s.janitor(janitorCtx)
	}
}

// Stop halts the janitor and drains the worker pool.
func (s *ReportService) Stop() {
	if s.janitorCancel != nil {
		s.janitorCancel()
	}
	s.queue.Stop()
}

func (s *ReportService) janitor(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.store.CleanupOlderThan(s.retention)
			if err != nil {
				s.logger.Warn("report cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired reports removed", zap.Int("count", len(removed)))
			}
		}
	}
}

// Create queues a new export job and returns its initial status.
func (s *ReportService) Create(ctx context.Context, requestedBy string, req dto.CreateReportRequest) (*dto.ReportStatus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	job := &models.ReportJob{
		ID:          uuid.NewString(),
		Format:      req.Format,
		Status:      models.ReportStatusQueued,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: reportJobType}); err != nil {
		s.setFailed(job.ID, err.Error())
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue report")
	}

	return s.Status(ctx, job.ID)
}

// Status returns the current state of a job, with a signed download URL once
// the export completed.
func (s *ReportService) Status(_ context.Context, jobID string) (*dto.ReportStatus, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}

	status := &dto.ReportStatus{
		ID:     job.ID,
		Status: job.Status,
		Format: job.Format,
		Error:  job.Error,
	}
	if job.Status == models.ReportStatusCompleted && job.FilePath != "" {
		token, _, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		status.DownloadURL = "/api/v1/reports/download?token=" + token
	}
	return status, nil
}

// OpenDownload validates a signed token and opens the exported file.
func (s *ReportService) OpenDownload(token string) (string, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}

	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok || job.FilePath != relPath {
		return "", appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	return s.store.Path(relPath), nil
}

// process runs inside the worker pool: builds the overview, renders it and
// persists the file.
func (s *ReportService) process(ctx context.Context, job jobs.Job) error {
	s.setStatus(job.ID, models.ReportStatusRunning)

	s.mu.RLock()
	record, ok := s.jobs[job.ID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown report job %s", job.ID)
	}

	overview, err := s.metrics.Overview(ctx)
	if err != nil {
		s.setFailed(job.ID, err.Error())
		return err
	}

	data := overviewDataset(overview)

	var payload []byte
	var filename string
	switch record.Format {
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(data, "Stock Metrics Overview")
		filename = fmt.Sprintf("stock-metrics-%s.pdf", job.ID)
	default:
		payload, err = s.csv.Render(data)
		filename = fmt.Sprintf("stock-metrics-%s.csv", job.ID)
	}
	if err != nil {
		s.setFailed(job.ID, err.Error())
		return err
	}

	relPath, err := s.store.Save(filename, payload)
	if err != nil {
		s.setFailed(job.ID, err.Error())
		return err
	}

	s.mu.Lock()
	record.Status = models.ReportStatusCompleted
	record.FilePath = relPath
	completedAt := time.Now().UTC()
	record.CompletedAt = &completedAt
	s.mu.Unlock()

	s.logger.Info("report completed", zap.String("job_id", job.ID), zap.String("file", relPath))
	return nil
}

func (s *ReportService) setStatus(jobID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = status
	}
}

func (s *ReportService) setFailed(jobID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = models.ReportStatusFailed
		job.Error = message
	}
}

func overviewDataset(overview *dto.StockMetricsOverview) export.Dataset {
	rows := make([]map[string]string, 0, len(overview.TopClients))
	for _, client := range overview.TopClients {
		rows = append(rows, map[string]string{
			"User Code":           client.UserCode,
			"Username":            client.Username,
			"Total Orders":        strconv.Itoa(client.TotalOrders),
			"Total Litres":        strconv.FormatFloat(client.TotalLitres, 'f', 2, 64),
			"Average Daily Usage": strconv.FormatFloat(client.AverageDailyUsage, 'f', 2, 64),
		})
	}
	return export.Dataset{Headers: stockReportHeaders, Rows: rows}
}
