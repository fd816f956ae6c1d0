package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

type exportResult struct {
	ProfileID string `json:"profile_id"`
	Path      string `json:"path"`
	Bytes     int64  `json:"bytes"`
}

// NewExportCommand writes the active profile's report without deleting anything.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the active profile's readings as a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			profile, ok := app.Profiles.ActiveProfile()
			if !ok {
				return noActiveProfile()
			}
			if len(profile.Readings) == 0 {
				return apperrors.NewNoReadingsError(profile.ID)
			}

			path, err := app.Exporter.Export(cmd.Context(), profile)
			if err != nil {
				return err
			}

			result := exportResult{ProfileID: profile.ID, Path: path}
			if info, err := os.Stat(path); err == nil {
				result.Bytes = info.Size()
			} else {
				logger.Debug("Cannot stat exported report", "path", path, "error", err)
			}
			return rootOpts.output(cmd).Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "Report saved to %s (%s)\n", path, humanize.Bytes(uint64(result.Bytes)))
			})
		},
	}
}
