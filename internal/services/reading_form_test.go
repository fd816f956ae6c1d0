package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

func TestReadingFactoryBloodPressure(t *testing.T) {
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	f := NewReadingFactory(&sequenceIDs{}, utils.FixedClock(now))

	r, err := f.BloodPressure(BloodPressureForm{Systolic: " 120 ", Diastolic: "80", Pulse: "70"})

	require.NoError(t, err)
	assert.Equal(t, "reading_1", r.ID)
	assert.Equal(t, now.UnixMilli(), r.Timestamp)
	assert.Equal(t, domain.ReadingTypeBloodPressure, r.Type())
	assert.Equal(t, domain.BloodPressure{Systolic: 120, Diastolic: 80, Pulse: 70}, *r.BloodPressure)
}

func TestReadingFactoryRejectsBadInput(t *testing.T) {
	f := NewReadingFactory(nil, nil)
	tests := []struct {
		name  string
		form  BloodPressureForm
		field string
	}{
		{"missing systolic", BloodPressureForm{Diastolic: "80", Pulse: "70"}, "systolic"},
		{"decimal diastolic", BloodPressureForm{Systolic: "120", Diastolic: "80.5", Pulse: "70"}, "diastolic"},
		{"zero pulse", BloodPressureForm{Systolic: "120", Diastolic: "80", Pulse: "0"}, "pulse"},
		{"negative systolic", BloodPressureForm{Systolic: "-1", Diastolic: "80", Pulse: "70"}, "systolic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.BloodPressure(tt.form)
			require.Error(t, err)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
			assert.Equal(t, tt.field, appErr.Context["field"])
		})
	}
}

func TestReadingFactoryBloodSugar(t *testing.T) {
	f := NewReadingFactory(&sequenceIDs{}, utils.FixedClock(time.Unix(0, 0)))

	r, err := f.BloodSugar(BloodSugarForm{Glucose: "95"})
	require.NoError(t, err)
	assert.Equal(t, domain.BloodSugar{Glucose: 95, Context: domain.ContextFasting}, *r.BloodSugar)

	_, err = f.BloodSugar(BloodSugarForm{Glucose: "abc"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestParseContext(t *testing.T) {
	tests := []struct {
		in   string
		want domain.BloodSugarContext
	}{
		{"", domain.ContextFasting},
		{"fasting", domain.ContextFasting},
		{"before-meal", domain.ContextBeforeMeal},
		{"AFTER_MEAL", domain.ContextAfterMeal},
		{"después de comer", domain.ContextAfterMeal},
		{"Otro", domain.ContextOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseContext(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseContext("lunch")
	assert.Error(t, err)
}
