package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/vladimiradmaev/health-tracker/internal/config"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/report"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

type stubRenderer struct {
	err  error
	docs []*report.Document
}

func (r *stubRenderer) Render(doc *report.Document) ([]byte, error) {
	r.docs = append(r.docs, doc)
	if r.err != nil {
		return nil, r.err
	}
	return []byte(doc.Title), nil
}

func (r *stubRenderer) Extension() string   { return ".txt" }
func (r *stubRenderer) ContentType() string { return "text/plain" }

type memorySink struct {
	err   error
	files map[string][]byte
}

func (s *memorySink) Save(_ context.Context, name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[name] = data
	return "mem://" + name, nil
}

var exportNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func TestExportServiceExport(t *testing.T) {
	renderer := &stubRenderer{}
	sink := &memorySink{}
	svc := NewExportService(renderer, sink, language.AmericanEnglish, time.UTC, utils.FixedClock(exportNow))

	path, err := svc.Export(context.Background(), domain.Profile{ID: "user_1", Name: "Ana Gómez"})

	require.NoError(t, err)
	assert.Equal(t, "mem://Informe_Salud_Ana_Gómez_2024-03-05.txt", path)
	assert.Equal(t, "Health Report for Ana Gómez", string(sink.files["Informe_Salud_Ana_Gómez_2024-03-05.txt"]))
	require.Len(t, renderer.docs, 1)
	assert.Equal(t, exportNow, renderer.docs[0].GeneratedAt)
}

func TestExportServiceRenderFailure(t *testing.T) {
	sink := &memorySink{}
	svc := NewExportService(&stubRenderer{err: errors.New("boom")}, sink, language.Und, nil, nil)

	_, err := svc.Export(context.Background(), domain.Profile{ID: "user_1", Name: "Ana"})

	assert.ErrorIs(t, err, apperrors.ErrExportFailed)
	assert.Empty(t, sink.files)
}

func TestExportServiceSinkFailure(t *testing.T) {
	svc := NewExportService(&stubRenderer{}, &memorySink{err: os.ErrPermission}, language.Und, nil, nil)

	_, err := svc.Export(context.Background(), domain.Profile{ID: "user_1", Name: "Ana"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExport))
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestExportServiceFromConfig(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewExportServiceFromConfig(config.ExportConfig{
		Dir:      dir,
		Format:   "xlsx",
		Locale:   "es-ES",
		Timezone: "UTC",
	}, utils.FixedClock(exportNow))
	require.NoError(t, err)

	profile := domain.Profile{ID: "user_1", Name: "Ana", Readings: []domain.Reading{
		domain.NewBloodPressureReading("reading_1", exportNow.UnixMilli(), domain.BloodPressure{Systolic: 120, Diastolic: 80, Pulse: 70}),
	}}
	path, err := svc.Export(context.Background(), profile)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Informe_Salud_Ana_2024-03-05.xlsx"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportServiceFromConfigRejectsUnknownFormat(t *testing.T) {
	_, err := NewExportServiceFromConfig(config.ExportConfig{Format: "docx", Locale: "es-ES"}, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
