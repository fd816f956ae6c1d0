// Package state holds the confirmation flow for deleting a profile.
package state

import (
	"context"
	"strings"
	"sync"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

// Deletion workflow states
const (
	Closed             = "closed"
	ConfirmingDeletion = "confirming_deletion"
	OfferingExport     = "offering_export"
)

// Workflow events, used in transition errors.
const (
	EventRequestDelete       = "request delete"
	EventCancel              = "cancel"
	EventConfirm             = "confirm"
	EventDeleteWithoutExport = "delete without export"
	EventExportAndDelete     = "export and delete"
)

// ProfileRepository is what the workflow needs from the profile store.
type ProfileRepository interface {
	Profile(id string) (domain.Profile, bool)
	DeleteProfile(ctx context.Context, id string) bool
}

// DeletionWorkflow walks a user from a delete request through confirmation
// and an optional export to the actual deletion. Transitions are serialized.
type DeletionWorkflow struct {
	profiles  ProfileRepository
	exporter  domain.ReportExporter
	state     string
	profileID string
	mu        sync.Mutex
}

// NewDeletionWorkflow creates a workflow in the closed state.
func NewDeletionWorkflow(profiles ProfileRepository, exporter domain.ReportExporter) *DeletionWorkflow {
	return &DeletionWorkflow{
		profiles: profiles,
		exporter: exporter,
		state:    Closed,
	}
}

// State returns the current state.
func (w *DeletionWorkflow) State() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// ProfileID returns the profile the workflow is about, or "" when closed.
func (w *DeletionWorkflow) ProfileID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.profileID
}

// RequestDelete opens the workflow for profileID.
func (w *DeletionWorkflow) RequestDelete(profileID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(EventRequestDelete, Closed); err != nil {
		return err
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return apperrors.NewFieldError("profile_id", "profile id is required")
	}
	w.transition(ConfirmingDeletion, profileID)
	return nil
}

// Cancel abandons the workflow from either open state.
func (w *DeletionWorkflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(EventCancel, ConfirmingDeletion, OfferingExport); err != nil {
		return err
	}
	w.reset()
	return nil
}

// Confirm moves on to the export offer.
func (w *DeletionWorkflow) Confirm() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(EventConfirm, ConfirmingDeletion); err != nil {
		return err
	}
	w.transition(OfferingExport, w.profileID)
	return nil
}

// DeleteWithoutExport deletes the profile and closes the workflow.
func (w *DeletionWorkflow) DeleteWithoutExport(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(EventDeleteWithoutExport, OfferingExport); err != nil {
		return err
	}
	w.profiles.DeleteProfile(ctx, w.profileID)
	w.reset()
	return nil
}

// ExportAndDelete saves the profile's report, then deletes the profile.
// When the export fails nothing is deleted and the export offer stays open.
func (w *DeletionWorkflow) ExportAndDelete(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(EventExportAndDelete, OfferingExport); err != nil {
		return "", err
	}

	profile, ok := w.profiles.Profile(w.profileID)
	if !ok {
		id := w.profileID
		w.reset()
		return "", apperrors.New(apperrors.ErrorTypeValidation, apperrors.CodeProfileNotFound, "Profile not found").
			WithContext("profile_id", id)
	}

	path, err := w.exporter.Export(ctx, profile)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeExport) {
			err = apperrors.NewExportError(err, profile.ID)
		}
		logger.Warn("Export before deletion failed, profile kept", "profile_id", profile.ID, "error", err)
		return "", err
	}

	w.profiles.DeleteProfile(ctx, profile.ID)
	w.reset()
	return path, nil
}

func (w *DeletionWorkflow) expect(event string, allowed ...string) error {
	for _, s := range allowed {
		if w.state == s {
			return nil
		}
	}
	return apperrors.NewTransitionError(w.state, event)
}

func (w *DeletionWorkflow) transition(to, profileID string) {
	logger.Debug("Deletion workflow transition", "from", w.state, "to", to, "profile_id", profileID)
	w.state = to
	w.profileID = profileID
}

func (w *DeletionWorkflow) reset() {
	w.transition(Closed, "")
}
