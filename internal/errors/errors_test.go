package errors

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorIs(t *testing.T) {
	err := NewTransitionError("closed", "confirm")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrExportFailed)
	assert.Equal(t, "validation: cannot confirm while closed", err.Error())
	assert.Equal(t, "closed", err.Context["state"])
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError(cause, "k")

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrorTypeStorage))
	assert.False(t, IsType(cause, ErrorTypeStorage))
	assert.Contains(t, err.Error(), "disk full")
}

func TestNoReadingsError(t *testing.T) {
	err := NewNoReadingsError("user_1")

	assert.ErrorIs(t, err, ErrNoReadings)
	assert.Equal(t, "user_1", err.Context["profile_id"])
	assert.Empty(t, ErrNoReadings.Context, "sentinel is never mutated")
}

func TestSourceNamesConstructorCaller(t *testing.T) {
	tests := map[string]*AppError{
		"new":         New(ErrorTypeInternal, CodeInternal, "x"),
		"wrap":        Wrap(errors.New("x"), ErrorTypeInternal, CodeInternal, "x"),
		"decode":      NewDecodeError(errors.New("x"), "k"),
		"storage":     NewStorageError(errors.New("x"), "k"),
		"export":      NewExportError(errors.New("x"), "user_1"),
		"field":       NewFieldError("pulse", "x"),
		"transition":  NewTransitionError("closed", "confirm"),
		"no readings": NewNoReadingsError("user_1"),
	}
	for name, err := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, err.Source, "errors_test.go")
		})
	}
}

func TestHandlerLevels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
		msg   string
	}{
		{"decode", NewDecodeError(errors.New("bad json"), "k"), "WARN", "Stored value discarded"},
		{"commit", NewStorageError(errors.New("io"), "k"), "ERROR", "Storage error"},
		{"validation", NewValidationError("nope"), "WARN", "Validation error"},
		{"export", NewExportError(errors.New("pdf"), "user_1"), "ERROR", "Critical error"},
		{"plain", errors.New("plain"), "ERROR", "Unhandled error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

			returned := h.LogAndReturn(context.Background(), tt.err)

			assert.Equal(t, tt.err, returned)
			assert.Contains(t, buf.String(), "level="+tt.level)
			assert.Contains(t, buf.String(), tt.msg)
		})
	}
}

func TestHandleNil(t *testing.T) {
	var buf bytes.Buffer
	NewHandler(slog.New(slog.NewTextHandler(&buf, nil))).Handle(context.Background(), nil)
	assert.Empty(t, buf.String())
}
