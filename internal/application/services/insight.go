package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
	"sheet-insights-api/internal/domain/insight"
)

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrInsightsUnavailable = errors.New("insights unavailable")
)

type InsightService struct {
	fileRepository file.Repository
	rowRepository  datarow.Repository
	cache          ports.InsightCache
	analyzer       insight.Analyzer
	sampleSize     int
	logger         *zap.Logger
}

func NewInsightService(
	fileRepository file.Repository,
	rowRepository datarow.Repository,
	cache ports.InsightCache,
	analyzer insight.Analyzer,
	sampleSize int,
	logger *zap.Logger,
) ports.InsightService {
	return &InsightService{
		fileRepository: fileRepository,
		rowRepository:  rowRepository,
		cache:          cache,
		analyzer:       analyzer,
		sampleSize:     sampleSize,
		logger:         logger,
	}
}

func (s *InsightService) Analyze(ctx context.Context, ownerID, fileID uuid.UUID) (*ports.FileInsights, error) {
	f, err := s.fileRepository.FetchByID(ctx, fileID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	if f == nil {
		return nil, ErrFileNotFound
	}

	rep, err := s.report(ctx, f)

	return &ports.FileInsights{File: f, Report: rep}, err
}

// AnalyzeAll reports on the first page of the owner's files. A file whose
// analysis failed carries the fallback report instead of failing the batch.
func (s *InsightService) AnalyzeAll(ctx context.Context, ownerID uuid.UUID) ([]*ports.FileInsights, error) {
	files, err := s.fileRepository.FetchByOwner(ctx, ownerID, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch files: %w", err)
	}

	out := make([]*ports.FileInsights, 0, len(files))
	for _, f := range files {
		rep, err := s.report(ctx, f)
		if err != nil {
			s.logger.Error("AnalyzeAll() error",
				zap.String("file_id", f.ID.String()),
				zap.Error(err),
			)
		}
		out = append(out, &ports.FileInsights{File: f, Report: rep})
	}

	return out, nil
}

func (s *InsightService) report(ctx context.Context, f *file.File) (*insight.Report, error) {
	if rep, ok := s.cache.Get(f.ID); ok {
		return rep, nil
	}

	rows, err := s.rowRepository.FetchByFile(ctx, f.ID, f.UploadedBy, s.sampleSize)
	if err != nil {
		return insight.FallbackReport(), fmt.Errorf("%w: fetch rows: %v", ErrInsightsUnavailable, err)
	}

	rep, err := s.analyze(f, rows.Values())
	if err != nil {
		return insight.FallbackReport(), err
	}
	s.cache.Set(f.ID, rep)

	return rep, nil
}

func (s *InsightService) analyze(f *file.File, rows []datarow.Row) (rep *insight.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep, err = nil, fmt.Errorf("%w: %v", ErrInsightsUnavailable, r)
		}
	}()

	return s.analyzer.Analyze(f.OriginalName, rows, f.Columns), nil
}
