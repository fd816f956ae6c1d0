package services

import (
	"context"
	"strings"
	"sync"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/storage"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

// ProfileService owns the profile collection and the active selection.
// Every mutation replaces the whole collection and commits it.
type ProfileService struct {
	mu       sync.Mutex
	profiles *storage.Slot[[]domain.Profile]
	active   *storage.Slot[*string]
	ids      utils.IDGenerator
}

var _ domain.ProfileStore = (*ProfileService)(nil)

// ProfileServiceOption configures a ProfileService.
type ProfileServiceOption func(*ProfileService)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(ids utils.IDGenerator) ProfileServiceOption {
	return func(s *ProfileService) { s.ids = ids }
}

// NewProfileService loads both slots from store.
func NewProfileService(ctx context.Context, store *storage.Store, opts ...ProfileServiceOption) *ProfileService {
	s := &ProfileService{
		profiles: storage.OpenSlot(ctx, store, storage.ProfilesKey, []domain.Profile{}),
		active:   storage.OpenSlot[*string](ctx, store, storage.ActiveProfileKey, nil),
		ids:      utils.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectProfile marks id active without checking that it exists.
func (s *ProfileService) SelectProfile(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active.Set(ctx, &id)
	logger.Debug("Profile selected", "profile_id", id)
}

// CreateProfile appends a new empty profile and selects it. Blank names are ignored.
func (s *ProfileService) CreateProfile(ctx context.Context, name string) (domain.Profile, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Profile{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := domain.Profile{
		ID:       s.ids.NewID(utils.ProfilePrefix),
		Name:     name,
		Readings: []domain.Reading{},
	}
	updated := append(domain.CloneProfiles(s.profiles.Get()), profile)
	s.profiles.Set(ctx, updated)
	id := profile.ID
	s.active.Set(ctx, &id)

	logger.Info("Profile created", "profile_id", profile.ID)
	return profile.Clone(), true
}

// DeselectProfile clears the active selection.
func (s *ProfileService) DeselectProfile(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active.Set(ctx, nil)
}

// AddReading prepends reading to the active profile. It reports false when
// no profile is active or the reading cannot be persisted (see
// domain.Reading.Validate); measurement values are the caller's concern.
func (s *ProfileService) AddReading(ctx context.Context, reading domain.Reading) bool {
	if err := reading.Validate(); err != nil {
		logger.Warn("Reading rejected", "reading_id", reading.ID, "error", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	activeID, ok := s.resolveActiveID()
	if !ok {
		return false
	}

	updated := domain.CloneProfiles(s.profiles.Get())
	for i := range updated {
		if updated[i].ID == activeID {
			readings := make([]domain.Reading, 0, len(updated[i].Readings)+1)
			readings = append(readings, reading.Clone())
			updated[i].Readings = append(readings, updated[i].Readings...)
		}
	}
	s.profiles.Set(ctx, updated)

	logger.Info("Reading added", "profile_id", activeID, "reading_id", reading.ID, "type", reading.Type())
	return true
}

// DeleteReading removes the reading with readingID from the active profile.
// It reports whether a reading was removed.
func (s *ProfileService) DeleteReading(ctx context.Context, readingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	activeID, ok := s.resolveActiveID()
	if !ok {
		return false
	}

	removed := false
	updated := domain.CloneProfiles(s.profiles.Get())
	for i := range updated {
		if updated[i].ID != activeID {
			continue
		}
		kept := make([]domain.Reading, 0, len(updated[i].Readings))
		for _, r := range updated[i].Readings {
			if r.ID == readingID {
				removed = true
				continue
			}
			kept = append(kept, r)
		}
		updated[i].Readings = kept
	}
	s.profiles.Set(ctx, updated)

	if removed {
		logger.Info("Reading deleted", "profile_id", activeID, "reading_id", readingID)
	}
	return removed
}

// DeleteProfile removes the profile and its readings, then clears the active
// selection whichever profile it pointed at.
func (s *ProfileService) DeleteProfile(ctx context.Context, profileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.profiles.Get()
	updated := make([]domain.Profile, 0, len(current))
	removed := false
	for _, p := range current {
		if p.ID == profileID {
			removed = true
			continue
		}
		updated = append(updated, p.Clone())
	}
	s.profiles.Set(ctx, updated)
	s.active.Set(ctx, nil)

	logger.Info("Profile deleted", "profile_id", profileID, "found", removed)
	return removed
}

// Profiles returns a copy of every profile in insertion order.
func (s *ProfileService) Profiles() []domain.Profile {
	return domain.CloneProfiles(s.profiles.Get())
}

// Profile looks a profile up by id.
func (s *ProfileService) Profile(id string) (domain.Profile, bool) {
	for _, p := range s.profiles.Get() {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return domain.Profile{}, false
}

// ActiveProfile resolves the selection; a selection pointing at a missing
// profile counts as no selection.
func (s *ProfileService) ActiveProfile() (domain.Profile, bool) {
	ref := s.active.Get()
	if ref == nil {
		return domain.Profile{}, false
	}
	return s.Profile(*ref)
}

// ActiveProfileID returns the resolved active id, or "".
func (s *ProfileService) ActiveProfileID() string {
	id, _ := s.resolveActiveID()
	return id
}

func (s *ProfileService) resolveActiveID() (string, bool) {
	p, ok := s.ActiveProfile()
	if !ok {
		return "", false
	}
	return p.ID, true
}
