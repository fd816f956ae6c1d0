package services

import (
	"strconv"
	"strings"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

// BloodPressureForm carries the raw entry fields for a blood pressure reading.
type BloodPressureForm struct {
	Systolic  string
	Diastolic string
	Pulse     string
}

// BloodSugarForm carries the raw entry fields for a blood sugar reading.
// An empty Context means fasting.
type BloodSugarForm struct {
	Glucose string
	Context string
}

// ReadingFactory validates entry forms and stamps new readings with an id
// and the current time. Invalid forms never reach the profile store.
type ReadingFactory struct {
	ids   utils.IDGenerator
	clock utils.Clock
}

func NewReadingFactory(ids utils.IDGenerator, clock utils.Clock) *ReadingFactory {
	if ids == nil {
		ids = utils.UUIDGenerator{}
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	return &ReadingFactory{ids: ids, clock: clock}
}

// BloodPressure turns a filled form into a reading.
func (f *ReadingFactory) BloodPressure(form BloodPressureForm) (domain.Reading, error) {
	systolic, err := parsePositive("systolic", form.Systolic)
	if err != nil {
		return domain.Reading{}, err
	}
	diastolic, err := parsePositive("diastolic", form.Diastolic)
	if err != nil {
		return domain.Reading{}, err
	}
	pulse, err := parsePositive("pulse", form.Pulse)
	if err != nil {
		return domain.Reading{}, err
	}

	return domain.NewBloodPressureReading(f.ids.NewID(utils.ReadingPrefix), f.clock().UnixMilli(), domain.BloodPressure{
		Systolic:  systolic,
		Diastolic: diastolic,
		Pulse:     pulse,
	}), nil
}

// BloodSugar turns a filled form into a reading.
func (f *ReadingFactory) BloodSugar(form BloodSugarForm) (domain.Reading, error) {
	glucose, err := parsePositive("glucose", form.Glucose)
	if err != nil {
		return domain.Reading{}, err
	}
	context, err := ParseContext(form.Context)
	if err != nil {
		return domain.Reading{}, err
	}

	return domain.NewBloodSugarReading(f.ids.NewID(utils.ReadingPrefix), f.clock().UnixMilli(), domain.BloodSugar{
		Glucose: glucose,
		Context: context,
	}), nil
}

// ParseContext accepts an enum name (any case, dashes or underscores) or
// its Spanish label. Empty input means fasting.
func ParseContext(value string) (domain.BloodSugarContext, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.ContextFasting, nil
	}
	normalized := domain.BloodSugarContext(strings.ToUpper(strings.ReplaceAll(value, "-", "_")))
	if normalized.Valid() {
		return normalized, nil
	}
	for _, c := range domain.BloodSugarContexts {
		if strings.EqualFold(c.Label(), value) {
			return c, nil
		}
	}
	return "", apperrors.NewFieldError("context", "unknown blood sugar context "+strconv.Quote(value))
}

func parsePositive(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, apperrors.NewFieldError(field, field+" is required")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.NewFieldError(field, field+" must be a whole number")
	}
	if n <= 0 {
		return 0, apperrors.NewFieldError(field, field+" must be positive")
	}
	return n, nil
}
