package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
)

// NewProfileCommand groups the profile subcommands.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Create, list, select and delete profiles",
	}
	cmd.AddCommand(newProfileCreateCommand(rootOpts))
	cmd.AddCommand(newProfileListCommand(rootOpts))
	cmd.AddCommand(newProfileSelectCommand(rootOpts))
	cmd.AddCommand(newProfileDeselectCommand(rootOpts))
	cmd.AddCommand(newProfileDeleteCommand(rootOpts))
	return cmd
}

func newProfileCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile and make it active",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			profile, ok := app.Profiles.CreateProfile(cmd.Context(), strings.Join(args, " "))
			if !ok {
				return apperrors.NewFieldError("name", "profile name must not be blank")
			}
			view := newProfileView(profile, profile.ID)
			return rootOpts.output(cmd).Success(view, func(w io.Writer) {
				fmt.Fprintf(w, "Created profile %s (%s). It is now the active profile.\n", profile.Name, profile.ID)
			})
		},
	}
}

func newProfileListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles; the active one is marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			profiles := app.Profiles.Profiles()
			activeID := app.Profiles.ActiveProfileID()

			views := make([]profileView, 0, len(profiles))
			for _, p := range profiles {
				views = append(views, newProfileView(p, activeID))
			}
			return rootOpts.output(cmd).Success(views, func(w io.Writer) {
				renderProfiles(w, profiles, activeID)
			})
		},
	}
}

func newProfileSelectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			profile, ok := app.Profiles.Profile(args[0])
			if !ok {
				return profileNotFound(args[0])
			}
			app.Profiles.SelectProfile(cmd.Context(), profile.ID)
			return rootOpts.output(cmd).Success(newProfileView(profile, profile.ID), func(w io.Writer) {
				fmt.Fprintf(w, "Active profile: %s (%s)\n", profile.Name, profile.ID)
			})
		},
	}
}

func newProfileDeselectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deselect",
		Short: "Clear the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.App().Profiles.DeselectProfile(cmd.Context())
			return rootOpts.output(cmd).Success(map[string]any{"active": nil}, func(w io.Writer) {
				fmt.Fprintln(w, "No profile is active.")
			})
		},
	}
}

// ProfileDeleteOptions answers the deletion prompts from flags.
type ProfileDeleteOptions struct {
	*RootOptions
	Yes      bool
	Export   bool
	NoExport bool
}

const (
	choiceExport = "export"
	choiceDelete = "delete"
	choiceCancel = "cancel"
)

type deletionResult struct {
	ProfileID  string `json:"profile_id"`
	Deleted    bool   `json:"deleted"`
	ReportPath string `json:"report_path,omitempty"`
}

func newProfileDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileDeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a profile and its readings, optionally exporting a report first",
		Long: `Delete a profile and all of its readings. Defaults to the active profile.

The command asks for confirmation, then offers to export a report before
deleting. --yes skips the confirmation; --export or --no-export answers the
export question. If the export fails the profile is kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteProfile(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&opts.Export, "export", false, "export a report before deleting")
	cmd.Flags().BoolVar(&opts.NoExport, "no-export", false, "delete without exporting a report")
	cmd.MarkFlagsMutuallyExclusive("export", "no-export")

	return cmd
}

func deleteProfile(cmd *cobra.Command, opts *ProfileDeleteOptions, args []string) error {
	app := opts.App()
	ctx := cmd.Context()
	out := opts.output(cmd)

	var (
		profile domain.Profile
		ok      bool
	)
	if len(args) == 1 {
		profile, ok = app.Profiles.Profile(args[0])
		if !ok {
			return profileNotFound(args[0])
		}
	} else if profile, ok = app.Profiles.ActiveProfile(); !ok {
		return noActiveProfile()
	}

	flow := app.Deletion
	if err := flow.RequestDelete(profile.ID); err != nil {
		return err
	}

	p := newPrompter(cmd)
	question := fmt.Sprintf("Delete profile %s and its %d readings? This cannot be undone.", profile.Name, len(profile.Readings))
	if !opts.Yes && !p.confirm(question) {
		if err := flow.Cancel(); err != nil {
			return err
		}
		return out.Success(deletionResult{ProfileID: profile.ID}, func(w io.Writer) {
			fmt.Fprintln(w, "Cancelled. Nothing was deleted.")
		})
	}
	if err := flow.Confirm(); err != nil {
		return err
	}

	interactive := !opts.Export && !opts.NoExport
	for {
		choice := choiceDelete
		switch {
		case opts.Export:
			choice = choiceExport
		case interactive:
			var err error
			choice, err = p.choose("Export a report before deleting? [e]xport, [d]elete without export, [c]ancel:",
				choiceExport, choiceDelete, choiceCancel)
			if err != nil {
				choice = choiceCancel
			}
		}

		switch choice {
		case choiceCancel:
			if err := flow.Cancel(); err != nil {
				return err
			}
			return out.Success(deletionResult{ProfileID: profile.ID}, func(w io.Writer) {
				fmt.Fprintln(w, "Cancelled. Nothing was deleted.")
			})
		case choiceDelete:
			if err := flow.DeleteWithoutExport(ctx); err != nil {
				return err
			}
			return out.Success(deletionResult{ProfileID: profile.ID, Deleted: true}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted profile %s.\n", profile.Name)
			})
		case choiceExport:
			path, err := flow.ExportAndDelete(ctx)
			if err != nil {
				if !interactive {
					_ = flow.Cancel()
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Export failed, the profile was kept: %v\n", err)
				continue
			}
			return out.Success(deletionResult{ProfileID: profile.ID, Deleted: true, ReportPath: path}, func(w io.Writer) {
				fmt.Fprintf(w, "Report saved to %s\nDeleted profile %s.\n", path, profile.Name)
			})
		}
	}
}

func profileNotFound(id string) error {
	return apperrors.New(apperrors.ErrorTypeValidation, apperrors.CodeProfileNotFound, "Profile not found").
		WithContext("profile_id", id)
}

func noActiveProfile() error {
	return apperrors.NewValidationError("no active profile; select one with: health-tracker profile select <id>")
}
