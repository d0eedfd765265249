package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/export"
	"github.com/travisk/storage-dashboard-go/internal/infra/observability"
	"github.com/travisk/storage-dashboard-go/internal/infra/store"
)

// ExportService renders snapshot exports to xlsx.
type ExportService struct {
	snap      *store.Snapshot
	metrics   *observability.Metrics
	logger    *zap.Logger
	exportDir string
}

// NewExportService creates the service. exportDir may be empty to skip the
// on-disk copy.
func NewExportService(snap *store.Snapshot, metrics *observability.Metrics, logger *zap.Logger, exportDir string) *ExportService {
	return &ExportService{
		snap:      snap,
		metrics:   metrics,
		logger:    logger,
		exportDir: exportDir,
	}
}

// ExportResult is one generated workbook.
type ExportResult struct {
	ID       string
	Filename string
	Data     []byte
}

// GenerateProjects builds the projects workbook for the given grouping and
// returns its bytes. When an export directory is configured a copy is kept
// there; failing to keep that copy does not fail the export.
func (s *ExportService) GenerateProjects(ctx context.Context, groupBy string) (*ExportResult, error) {
	_, span := tracer.Start(ctx, "ExportService.GenerateProjects")
	defer span.End()

	var mode export.GroupBy
	switch groupBy {
	case "", string(export.GroupByCategory):
		mode = export.GroupByCategory
	case string(export.GroupByYear):
		mode = export.GroupByYear
	default:
		return nil, &domain.ErrValidation{Field: "groupBy", Message: "must be category or year"}
	}

	f, err := export.BuildWorkbook(s.snap.Projects, mode)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		ID:       uuid.NewString(),
		Filename: export.Filename(time.Now()),
		Data:     buf.Bytes(),
	}
	s.metrics.IncrExport()

	if s.exportDir != "" {
		path := filepath.Join(s.exportDir, result.Filename)
		if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
			s.logger.Warn("export: create export dir", zap.Error(err))
		} else if err := os.WriteFile(path, result.Data, 0o644); err != nil {
			s.logger.Warn("export: keep on-disk copy", zap.String("path", path), zap.Error(err))
		}
	}

	s.logger.Info("export generated",
		zap.String("export_id", result.ID),
		zap.String("filename", result.Filename),
		zap.String("group_by", string(mode)),
		zap.Int("projects", len(s.snap.Projects)),
	)
	return result, nil
}
