package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/services"
)

// NewReadingCommand groups the reading subcommands. All of them act on the
// active profile.
func NewReadingCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reading",
		Short: "Add, list and delete readings of the active profile",
	}
	cmd.AddCommand(newAddBloodPressureCommand(rootOpts))
	cmd.AddCommand(newAddBloodSugarCommand(rootOpts))
	cmd.AddCommand(newReadingListCommand(rootOpts))
	cmd.AddCommand(newReadingDeleteCommand(rootOpts))
	return cmd
}

func newAddBloodPressureCommand(rootOpts *RootOptions) *cobra.Command {
	var form services.BloodPressureForm

	cmd := &cobra.Command{
		Use:     "add-bp",
		Short:   "Record a blood pressure reading",
		Example: `  health-tracker reading add-bp --systolic 120 --diastolic 80 --pulse 70`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			if _, ok := app.Profiles.ActiveProfile(); !ok {
				return noActiveProfile()
			}
			reading, err := app.Readings.BloodPressure(form)
			if err != nil {
				return err
			}
			return addReading(cmd, rootOpts, reading)
		},
	}

	cmd.Flags().StringVar(&form.Systolic, "systolic", "", "systolic pressure in mmHg")
	cmd.Flags().StringVar(&form.Diastolic, "diastolic", "", "diastolic pressure in mmHg")
	cmd.Flags().StringVar(&form.Pulse, "pulse", "", "pulse in beats per minute")

	return cmd
}

func newAddBloodSugarCommand(rootOpts *RootOptions) *cobra.Command {
	var form services.BloodSugarForm

	cmd := &cobra.Command{
		Use:   "add-bs",
		Short: "Record a blood sugar reading",
		Example: `  health-tracker reading add-bs --glucose 95
  health-tracker reading add-bs --glucose 140 --context after-meal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			if _, ok := app.Profiles.ActiveProfile(); !ok {
				return noActiveProfile()
			}
			reading, err := app.Readings.BloodSugar(form)
			if err != nil {
				return err
			}
			return addReading(cmd, rootOpts, reading)
		},
	}

	cmd.Flags().StringVar(&form.Glucose, "glucose", "", "glucose in mg/dL")
	cmd.Flags().StringVar(&form.Context, "context", "", "fasting (default), before-meal, after-meal or other")

	return cmd
}

func addReading(cmd *cobra.Command, rootOpts *RootOptions, reading domain.Reading) error {
	app := rootOpts.App()
	if err := reading.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if !app.Profiles.AddReading(cmd.Context(), reading) {
		return noActiveProfile()
	}
	return rootOpts.output(cmd).Success(newReadingView(reading, app.Location), func(w io.Writer) {
		fmt.Fprintf(w, "Added %s reading %s (%s).\n", typeLabel(reading.Type()), reading.ID, describeReading(reading))
	})
}

func newReadingListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List readings of the active profile, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			profile, ok := app.Profiles.ActiveProfile()
			if !ok {
				return noActiveProfile()
			}
			readings := domain.SortByTimestampDesc(profile.Readings)

			views := make([]readingView, 0, len(readings))
			for _, r := range readings {
				views = append(views, newReadingView(r, app.Location))
			}
			return rootOpts.output(cmd).Success(views, func(w io.Writer) {
				renderReadings(w, profile, readings, app.Location)
			})
		},
	}
}

func newReadingDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reading of the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			profile, ok := app.Profiles.ActiveProfile()
			if !ok {
				return noActiveProfile()
			}
			reading, ok := findReading(profile, args[0])
			if !ok {
				return apperrors.NewFieldError("reading_id", "reading not found in the active profile").
					WithContext("reading_id", args[0])
			}

			deleted := false
			if yes || newPrompter(cmd).confirm(fmt.Sprintf("Delete %s reading %s?", typeLabel(reading.Type()), describeReading(reading))) {
				deleted = app.Profiles.DeleteReading(cmd.Context(), reading.ID)
			}
			result := map[string]any{"reading_id": reading.ID, "deleted": deleted}
			return rootOpts.output(cmd).Success(result, func(w io.Writer) {
				if deleted {
					fmt.Fprintf(w, "Deleted reading %s.\n", reading.ID)
				} else {
					fmt.Fprintln(w, "Cancelled. Nothing was deleted.")
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func findReading(profile domain.Profile, id string) (domain.Reading, bool) {
	for _, r := range profile.Readings {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Reading{}, false
}
