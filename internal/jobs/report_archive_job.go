package jobs

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/arredo/backoffice-api/internal/storage"
	"go.uber.org/zap"
)

// ReportArchiveJobName is the scheduler name of the deal report archive job
const ReportArchiveJobName = "report_archive"

// XLSXContentType is the MIME type of the rendered workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DealReportRenderer renders the deal export workbook and its file name.
// Declared here so the job does not depend on the service package.
type DealReportRenderer interface {
	DealReport(ctx context.Context) ([]byte, string, error)
}

// ReportArchiveJob renders the deal report and stores it under reports/
type ReportArchiveJob struct {
	renderer DealReportRenderer
	store    storage.Storage
	logger   *zap.Logger
	timeout  time.Duration
}

// NewReportArchiveJob creates the job. timeout bounds a single run.
func NewReportArchiveJob(renderer DealReportRenderer, store storage.Storage, logger *zap.Logger, timeout time.Duration) *ReportArchiveJob {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &ReportArchiveJob{
		renderer: renderer,
		store:    store,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run is the scheduler entry point. Failures are logged.
func (j *ReportArchiveJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.Archive(ctx); err != nil {
		j.logger.Error("report archive job failed", zap.Error(err))
	}
}

// Archive renders and uploads the report, returning the storage key
func (j *ReportArchiveJob) Archive(ctx context.Context) (string, error) {
	start := time.Now()

	data, filename, err := j.renderer.DealReport(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to render deal report: %w", err)
	}

	key := storage.ReportsPrefix + filename
	size, err := j.store.Put(ctx, key, XLSXContentType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}

	j.logger.Info("deal report archived",
		zap.String("key", key),
		zap.Int64("size", size),
		zap.Duration("duration", time.Since(start)))

	return key, nil
}
