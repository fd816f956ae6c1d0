package domain

import (
	"context"
)

// ProfileStore is the mutation contract the presentation layer drives.
type ProfileStore interface {
	SelectProfile(ctx context.Context, id string)
	CreateProfile(ctx context.Context, name string) (Profile, bool)
	DeselectProfile(ctx context.Context)
	AddReading(ctx context.Context, reading Reading) bool
	DeleteReading(ctx context.Context, readingID string) bool
	DeleteProfile(ctx context.Context, profileID string) bool

	Profiles() []Profile
	Profile(id string) (Profile, bool)
	ActiveProfile() (Profile, bool)
}

// ReportExporter builds and saves a report for a profile, returning where it went.
type ReportExporter interface {
	Export(ctx context.Context, profile Profile) (string, error)
}
