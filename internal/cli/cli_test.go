package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/health-tracker/internal/config"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/state"
	"github.com/vladimiradmaev/health-tracker/internal/storage"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

type sequenceIDs struct{ n int }

func (s *sequenceIDs) NewID(prefix string) string {
	s.n++
	return fmt.Sprintf("%s_%d", prefix, s.n)
}

var testNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

type harness struct {
	t         *testing.T
	app       *App
	exportDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "exports")
	app, err := NewApp(context.Background(), storage.NewMemory(), config.ExportConfig{
		Dir:      dir,
		Format:   "pdf",
		Locale:   "es-ES",
		Timezone: "UTC",
	}, AppOptions{Clock: utils.FixedClock(testNow), IDs: &sequenceIDs{}})
	require.NoError(t, err)
	return &harness{t: t, app: app, exportDir: dir}
}

func (h *harness) load(context.Context) (*App, error) { return h.app, nil }

// run executes one command line with stdin and returns stdout, stderr and the exit code.
func (h *harness) run(stdin string, args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), h.load, args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, code := h.run("", args...)
	require.Equal(h.t, ExitSuccess, code, "stderr: %s", errOut)
	return out
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(nil)
	assert.Equal(t, "health-tracker", cmd.Use)

	for _, path := range [][]string{
		{"profile", "create"}, {"profile", "list"}, {"profile", "select"}, {"profile", "deselect"}, {"profile", "delete"},
		{"reading", "add-bp"}, {"reading", "add-bs"}, {"reading", "list"}, {"reading", "delete"},
		{"export"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "profile", "list", "--format", "yaml")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "invalid format")
}

func TestProfileLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("profile", "create", "Ana", "María")
	assert.Contains(t, out, "Created profile Ana María (user_1)")

	h.mustRun("profile", "create", "Luis")
	out = h.mustRun("profile", "list")
	assert.Contains(t, out, "user_1")
	assert.Contains(t, out, "*  user_2")

	h.mustRun("profile", "select", "user_1")
	assert.Equal(t, "user_1", h.app.Profiles.ActiveProfileID())

	h.mustRun("profile", "deselect")
	assert.Empty(t, h.app.Profiles.ActiveProfileID())
	out = h.mustRun("profile", "list")
	assert.Contains(t, out, "No active profile")
}

func TestProfileCreateBlankName(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "profile", "create", "  ")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "must not be blank")
	assert.Empty(t, h.app.Profiles.Profiles())
}

func TestProfileSelectUnknown(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "profile", "select", "user_404")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "PROFILE_NOT_FOUND")
}

func TestProfileListJSON(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")

	out := h.mustRun("profile", "list", "--format", "json")

	var resp struct {
		Status string        `json:"status"`
		Data   []profileView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []profileView{{ID: "user_1", Name: "Ana", Readings: 0, Active: true}}, resp.Data)
}

func TestReadingCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")

	out := h.mustRun("reading", "add-bp", "--systolic", "120", "--diastolic", "80", "--pulse", "70")
	assert.Contains(t, out, "120/80 mmHg, pulse 70")
	out = h.mustRun("reading", "add-bs", "--glucose", "95")
	assert.Contains(t, out, "95 mg/dL, En ayunas")

	out = h.mustRun("reading", "list")
	assert.Contains(t, out, "Readings for Ana")
	assert.Contains(t, out, "reading_2")
	assert.Contains(t, out, "reading_3")

	_, errOut, code := h.run("", "reading", "add-bp", "--systolic", "120", "--diastolic", "x", "--pulse", "70")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "diastolic must be a whole number")

	profile, _ := h.app.Profiles.ActiveProfile()
	assert.Len(t, profile.Readings, 2)
}

func TestReadingListJSONNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.mustRun("profile", "create", "Ana")
	h.app.Profiles.AddReading(ctx, domain.NewBloodSugarReading("old", 1000, domain.BloodSugar{Glucose: 90, Context: domain.ContextOther}))
	h.app.Profiles.AddReading(ctx, domain.NewBloodPressureReading("new", 5000, domain.BloodPressure{Systolic: 1, Diastolic: 2, Pulse: 3}))
	h.app.Profiles.AddReading(ctx, domain.NewBloodSugarReading("mid", 3000, domain.BloodSugar{Glucose: 91, Context: domain.ContextFasting}))

	out := h.mustRun("reading", "list", "--format", "json")

	var resp struct {
		Data []readingView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "new", resp.Data[0].ID)
	assert.Equal(t, "mid", resp.Data[1].ID)
	assert.Equal(t, "old", resp.Data[2].ID)
	assert.Equal(t, domain.ContextOther, resp.Data[2].Context)
}

func TestReadingCommandsNeedActiveProfile(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{
		{"reading", "add-bs", "--glucose", "95"},
		{"reading", "list"},
		{"reading", "delete", "reading_1", "--yes"},
		{"export"},
	} {
		_, errOut, code := h.run("", args...)
		assert.Equal(t, ExitFailure, code, "%v", args)
		assert.Contains(t, errOut, "no active profile", "%v", args)
	}
}

func TestReadingDeleteConfirmation(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")
	h.mustRun("reading", "add-bs", "--glucose", "95")

	out, _, code := h.run("n\n", "reading", "delete", "reading_2")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Cancelled")
	profile, _ := h.app.Profiles.ActiveProfile()
	assert.Len(t, profile.Readings, 1)

	out, _, code = h.run("y\n", "reading", "delete", "reading_2")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Deleted reading reading_2")
	profile, _ = h.app.Profiles.ActiveProfile()
	assert.Empty(t, profile.Readings)

	_, errOut, code := h.run("", "reading", "delete", "reading_2", "--yes")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "reading not found")
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")

	_, errOut, code := h.run("", "export")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "NO_READINGS")

	h.mustRun("reading", "add-bp", "--systolic", "120", "--diastolic", "80", "--pulse", "70")
	out := h.mustRun("export")

	path := filepath.Join(h.exportDir, "Informe_Salud_Ana_2024-03-05.pdf")
	assert.Contains(t, out, "Report saved to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestProfileDeleteInteractiveCancel(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")

	out, _, code := h.run("n\n", "profile", "delete")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Cancelled")
	assert.Len(t, h.app.Profiles.Profiles(), 1)
	assert.Equal(t, state.Closed, h.app.Deletion.State())
}

func TestProfileDeleteInteractiveWithoutExport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")
	h.mustRun("profile", "create", "Luis")

	out, errOut, code := h.run("y\nmaybe\nd\n", "profile", "delete", "user_1")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, errOut, "Please answer one of")
	assert.Contains(t, out, "Deleted profile Ana")
	profiles := h.app.Profiles.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, "user_2", profiles[0].ID)
	assert.Empty(t, h.app.Profiles.ActiveProfileID())
	assert.Equal(t, state.Closed, h.app.Deletion.State())
}

func TestProfileDeleteExportFlags(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")
	h.mustRun("reading", "add-bs", "--glucose", "95")

	out := h.mustRun("profile", "delete", "--yes", "--export", "--format", "json")

	var resp struct {
		Data deletionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Deleted)
	assert.Equal(t, filepath.Join(h.exportDir, "Informe_Salud_Ana_2024-03-05.pdf"), resp.Data.ReportPath)
	assert.FileExists(t, resp.Data.ReportPath)
	assert.Empty(t, h.app.Profiles.Profiles())
}

func TestProfileDeleteExportFailureKeepsProfile(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")
	// A regular file where the export directory should be makes the export fail.
	require.NoError(t, os.WriteFile(h.exportDir, []byte("x"), 0o644))

	_, errOut, code := h.run("", "profile", "delete", "--yes", "--export")

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "EXPORT_FAILED")
	assert.Len(t, h.app.Profiles.Profiles(), 1)
	assert.Equal(t, state.Closed, h.app.Deletion.State())
}

func TestProfileDeleteFlagsAreExclusive(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "Ana")

	_, _, code := h.run("", "profile", "delete", "--yes", "--export", "--no-export")

	assert.Equal(t, ExitCommandError, code)
	assert.Len(t, h.app.Profiles.Profiles(), 1)
}

func TestVerboseDumpsStorageMetrics(t *testing.T) {
	prev := logger.GetLogger()
	defer logger.SetLogger(prev)

	h := newHarness(t)
	_, errOut, code := h.run("", "profile", "create", "Ana", "--verbose")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, errOut, "Storage metrics")
	assert.Contains(t, errOut, "health_tracker_storage_commits_total{key=health-tracker-profiles}")
}
