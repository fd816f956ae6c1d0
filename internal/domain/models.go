package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ReadingType tags the variant of a Reading.
type ReadingType string

const (
	ReadingTypeBloodPressure ReadingType = "BLOOD_PRESSURE"
	ReadingTypeBloodSugar    ReadingType = "BLOOD_SUGAR"
)

// BloodSugarContext says when a glucose sample was taken.
type BloodSugarContext string

const (
	ContextFasting    BloodSugarContext = "FASTING"
	ContextBeforeMeal BloodSugarContext = "BEFORE_MEAL"
	ContextAfterMeal  BloodSugarContext = "AFTER_MEAL"
	ContextOther      BloodSugarContext = "OTHER"
)

// BloodSugarContexts lists every context in display order.
var BloodSugarContexts = []BloodSugarContext{ContextFasting, ContextBeforeMeal, ContextAfterMeal, ContextOther}

// Valid reports whether c is one of the known contexts.
func (c BloodSugarContext) Valid() bool {
	switch c {
	case ContextFasting, ContextBeforeMeal, ContextAfterMeal, ContextOther:
		return true
	}
	return false
}

// Label returns the Spanish label shown in listings and reports.
func (c BloodSugarContext) Label() string {
	switch c {
	case ContextFasting:
		return "En ayunas"
	case ContextBeforeMeal:
		return "Antes de comer"
	case ContextAfterMeal:
		return "Después de comer"
	case ContextOther:
		return "Otro"
	}
	return string(c)
}

// BloodPressure holds a blood pressure measurement (mmHg, mmHg, bpm).
type BloodPressure struct {
	Systolic  int
	Diastolic int
	Pulse     int
}

// BloodSugar holds a glucose measurement in mg/dL.
type BloodSugar struct {
	Glucose int
	Context BloodSugarContext
}

// Reading is a single timestamped measurement. Exactly one of BloodPressure
// and BloodSugar is set; the set one decides Type.
type Reading struct {
	ID            string
	Timestamp     int64 // milliseconds since epoch
	BloodPressure *BloodPressure
	BloodSugar    *BloodSugar
}

// NewBloodPressureReading builds a blood pressure reading.
func NewBloodPressureReading(id string, timestamp int64, bp BloodPressure) Reading {
	return Reading{ID: id, Timestamp: timestamp, BloodPressure: &bp}
}

// NewBloodSugarReading builds a blood sugar reading.
func NewBloodSugarReading(id string, timestamp int64, bs BloodSugar) Reading {
	return Reading{ID: id, Timestamp: timestamp, BloodSugar: &bs}
}

// Type returns the variant tag. A zero Reading has an empty type.
func (r Reading) Type() ReadingType {
	switch {
	case r.BloodPressure != nil:
		return ReadingTypeBloodPressure
	case r.BloodSugar != nil:
		return ReadingTypeBloodSugar
	}
	return ""
}

// Time converts the epoch-millis timestamp.
func (r Reading) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Clone returns a copy that shares no pointers with r.
func (r Reading) Clone() Reading {
	out := Reading{ID: r.ID, Timestamp: r.Timestamp}
	if r.BloodPressure != nil {
		bp := *r.BloodPressure
		out.BloodPressure = &bp
	}
	if r.BloodSugar != nil {
		bs := *r.BloodSugar
		out.BloodSugar = &bs
	}
	return out
}

// readingJSON is the flat persisted layout of a Reading.
type readingJSON struct {
	ID        string            `json:"id"`
	Type      ReadingType       `json:"type"`
	Timestamp int64             `json:"timestamp"`
	Systolic  *int              `json:"systolic,omitempty"`
	Diastolic *int              `json:"diastolic,omitempty"`
	Pulse     *int              `json:"pulse,omitempty"`
	Glucose   *int              `json:"glucose,omitempty"`
	Context   BloodSugarContext `json:"context,omitempty"`
}

// Validate checks the shape the JSON layout can carry: exactly one
// measurement, and a blood sugar context that is either unset or known.
// Measurement values are not checked.
func (r Reading) Validate() error {
	switch {
	case r.BloodPressure != nil && r.BloodSugar != nil:
		return fmt.Errorf("reading %q has two measurements", r.ID)
	case r.BloodPressure == nil && r.BloodSugar == nil:
		return fmt.Errorf("reading %q has no measurement", r.ID)
	case r.BloodSugar != nil && r.BloodSugar.Context != "" && !r.BloodSugar.Context.Valid():
		return fmt.Errorf("blood sugar reading %q has unknown context %q", r.ID, r.BloodSugar.Context)
	}
	return nil
}

// MarshalJSON writes the flat {id,type,timestamp,...} record. It refuses
// anything UnmarshalJSON would not read back.
func (r Reading) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	raw := readingJSON{ID: r.ID, Type: r.Type(), Timestamp: r.Timestamp}
	switch raw.Type {
	case ReadingTypeBloodPressure:
		bp := *r.BloodPressure
		raw.Systolic, raw.Diastolic, raw.Pulse = &bp.Systolic, &bp.Diastolic, &bp.Pulse
	case ReadingTypeBloodSugar:
		bs := *r.BloodSugar
		raw.Glucose, raw.Context = &bs.Glucose, bs.Context
	}
	return json.Marshal(raw)
}

// UnmarshalJSON rejects unknown types, variants missing their fields and
// unknown contexts. An absent context decodes as unset.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var raw readingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Reading{ID: raw.ID, Timestamp: raw.Timestamp}
	switch raw.Type {
	case ReadingTypeBloodPressure:
		if raw.Systolic == nil || raw.Diastolic == nil || raw.Pulse == nil {
			return fmt.Errorf("blood pressure reading %q is missing fields", raw.ID)
		}
		out.BloodPressure = &BloodPressure{Systolic: *raw.Systolic, Diastolic: *raw.Diastolic, Pulse: *raw.Pulse}
	case ReadingTypeBloodSugar:
		if raw.Glucose == nil {
			return fmt.Errorf("blood sugar reading %q is missing fields", raw.ID)
		}
		out.BloodSugar = &BloodSugar{Glucose: *raw.Glucose, Context: raw.Context}
	default:
		return fmt.Errorf("reading %q has unknown type %q", raw.ID, raw.Type)
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Profile owns an ordered collection of readings.
type Profile struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Readings []Reading `json:"readings"`
}

// Clone deep-copies the profile and its readings.
func (p Profile) Clone() Profile {
	out := Profile{ID: p.ID, Name: p.Name, Readings: make([]Reading, len(p.Readings))}
	for i, r := range p.Readings {
		out.Readings[i] = r.Clone()
	}
	return out
}

// CloneProfiles deep-copies a profile collection.
func CloneProfiles(profiles []Profile) []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = p.Clone()
	}
	return out
}

// SortByTimestampDesc returns the readings newest first, leaving the input untouched.
func SortByTimestampDesc(readings []Reading) []Reading {
	sorted := make([]Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	return sorted
}
