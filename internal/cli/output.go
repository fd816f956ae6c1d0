package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // rejected input or workflow step
	ExitCommandError = 2 // usage, storage or export problems
)

// GetExitCode maps an error returned by a command to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		return ExitFailure
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError describes a failed command.
type CLIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Success writes data as JSON, or calls text for human-readable output.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Error reports err in the configured format.
func (f *OutputFormatter) Error(err error) {
	cliErr := &CLIError{Code: "COMMAND_ERROR", Message: err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		cliErr.Code = appErr.Code
		cliErr.Message = appErr.Message
		if len(appErr.Context) > 0 {
			cliErr.Details = appErr.Context
		}
	}

	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Error: cliErr})
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, "Error [%s]: %s\n", cliErr.Code, cliErr.Message)
}
