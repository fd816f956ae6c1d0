package services

import (
	"context"
	"time"

	"golang.org/x/text/language"

	"github.com/vladimiradmaev/health-tracker/internal/config"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/report"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

// ExportService builds a profile's report, renders it and hands the bytes to
// a sink. It satisfies domain.ReportExporter.
type ExportService struct {
	renderer report.Renderer
	sink     report.Sink
	locale   language.Tag
	location *time.Location
	clock    utils.Clock
}

var _ domain.ReportExporter = (*ExportService)(nil)

func NewExportService(renderer report.Renderer, sink report.Sink, locale language.Tag, location *time.Location, clock utils.Clock) *ExportService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &ExportService{
		renderer: renderer,
		sink:     sink,
		locale:   locale,
		location: location,
		clock:    clock,
	}
}

// NewExportServiceFromConfig wires the renderer, a directory sink, the locale
// and the time zone named in cfg.
func NewExportServiceFromConfig(cfg config.ExportConfig, clock utils.Clock) (*ExportService, error) {
	renderer, err := report.NewRenderer(cfg.Format)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, apperrors.CodeValidation, "Invalid export format")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, apperrors.CodeValidation, "Invalid report timezone")
	}
	tag, err := cfg.Language()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, apperrors.CodeValidation, "Invalid report locale")
	}
	return NewExportService(renderer, report.NewDirSink(cfg.Dir), tag, loc, clock), nil
}

// Document lays out profile without rendering it.
func (s *ExportService) Document(profile domain.Profile) *report.Document {
	return report.Build(profile, report.Options{
		Now:      s.clock(),
		Location: s.location,
		Locale:   s.locale,
	})
}

// Export writes the report for profile and returns where it was saved.
func (s *ExportService) Export(ctx context.Context, profile domain.Profile) (string, error) {
	doc := s.Document(profile)

	data, err := s.renderer.Render(doc)
	if err != nil {
		return "", apperrors.NewExportError(err, profile.ID)
	}

	path, err := s.sink.Save(ctx, doc.Filename+s.renderer.Extension(), data)
	if err != nil {
		return "", apperrors.NewExportError(err, profile.ID).WithContext("filename", doc.Filename)
	}

	logger.Info("Report exported",
		"profile_id", profile.ID,
		"path", path,
		"bytes", len(data),
		"content_type", s.renderer.ContentType())
	return path, nil
}
