package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
)

type profileView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Readings int    `json:"readings"`
	Active   bool   `json:"active"`
}

type readingView struct {
	ID        string                   `json:"id"`
	Type      domain.ReadingType       `json:"type"`
	Timestamp int64                    `json:"timestamp"`
	Time      string                   `json:"time"`
	Systolic  int                      `json:"systolic,omitempty"`
	Diastolic int                      `json:"diastolic,omitempty"`
	Pulse     int                      `json:"pulse,omitempty"`
	Glucose   int                      `json:"glucose,omitempty"`
	Context   domain.BloodSugarContext `json:"context,omitempty"`
}

func newProfileView(p domain.Profile, activeID string) profileView {
	return profileView{ID: p.ID, Name: p.Name, Readings: len(p.Readings), Active: p.ID == activeID}
}

func newReadingView(r domain.Reading, loc *time.Location) readingView {
	v := readingView{
		ID:        r.ID,
		Type:      r.Type(),
		Timestamp: r.Timestamp,
		Time:      r.Time().In(loc).Format(time.RFC3339),
	}
	switch r.Type() {
	case domain.ReadingTypeBloodPressure:
		v.Systolic = r.BloodPressure.Systolic
		v.Diastolic = r.BloodPressure.Diastolic
		v.Pulse = r.BloodPressure.Pulse
	case domain.ReadingTypeBloodSugar:
		v.Glucose = r.BloodSugar.Glucose
		v.Context = r.BloodSugar.Context
	}
	return v
}

// describeReading is the one-line summary used in listings and prompts.
func describeReading(r domain.Reading) string {
	switch r.Type() {
	case domain.ReadingTypeBloodPressure:
		bp := r.BloodPressure
		return fmt.Sprintf("%d/%d mmHg, pulse %d", bp.Systolic, bp.Diastolic, bp.Pulse)
	case domain.ReadingTypeBloodSugar:
		bs := r.BloodSugar
		return fmt.Sprintf("%d mg/dL, %s", bs.Glucose, bs.Context.Label())
	}
	return "unknown reading"
}

func typeLabel(t domain.ReadingType) string {
	switch t {
	case domain.ReadingTypeBloodPressure:
		return "blood pressure"
	case domain.ReadingTypeBloodSugar:
		return "blood sugar"
	}
	return string(t)
}

func renderProfiles(w io.Writer, profiles []domain.Profile, activeID string) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles yet. Create one with: health-tracker profile create <name>")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tREADINGS")
	for _, p := range profiles {
		marker := ""
		if p.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", marker, p.ID, p.Name, len(p.Readings))
	}
	tw.Flush()
	if activeID == "" {
		fmt.Fprintln(w, "\nNo active profile. Select one with: health-tracker profile select <id>")
	}
}

func renderReadings(w io.Writer, profile domain.Profile, readings []domain.Reading, loc *time.Location) {
	if len(readings) == 0 {
		fmt.Fprintf(w, "%s has no readings yet.\n", profile.Name)
		return
	}
	fmt.Fprintf(w, "Readings for %s:\n\n", profile.Name)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tWHEN\tTYPE\tVALUE\tID")
	for _, r := range readings {
		at := r.Time()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			at.In(loc).Format("2006-01-02 15:04"),
			humanize.Time(at),
			typeLabel(r.Type()),
			describeReading(r),
			r.ID)
	}
	tw.Flush()
}
