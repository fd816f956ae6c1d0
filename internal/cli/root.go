package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/metrics"
)

// RootOptions holds global flags and the lazily loaded App.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	load AppLoader
	app  *App
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// App returns the loaded application. Only valid inside RunE.
func (o *RootOptions) App() *App {
	return o.app
}

func (o *RootOptions) output(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
}

// NewRootCommand creates the health-tracker command tree.
func NewRootCommand(load AppLoader) *cobra.Command {
	cmd, _ := newRootCommand(load)
	return cmd
}

func newRootCommand(load AppLoader) (*cobra.Command, *RootOptions) {
	opts := &RootOptions{load: load}

	cmd := &cobra.Command{
		Use:           "health-tracker",
		Short:         "Track blood pressure and blood sugar readings per profile",
		Long:          "Keeps named profiles with blood pressure and blood sugar readings on this device and exports them as PDF or XLSX reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Verbose {
				logger.SetLogger(logger.New(cmd.ErrOrStderr(), logger.Config{Level: logger.LevelDebug, Format: "text"}))
			}
			if opts.app == nil && opts.load != nil {
				app, err := opts.load(cmd.Context())
				if err != nil {
					return err
				}
				opts.app = app
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Verbose && opts.app != nil {
				dumpMetrics(opts.app)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging and storage metrics on stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewReadingCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd, opts
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, load AppLoader, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd, opts := newRootCommand(load)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	if opts.app != nil {
		if cerr := opts.app.Close(); cerr != nil {
			logger.Warn("Failed to close storage", "error", cerr)
		}
	}
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			logger.Error("Command failed", "error", err)
		}
		opts.output(cmd).Error(err)
	}
	return GetExitCode(err)
}

func dumpMetrics(app *App) {
	summary, err := metrics.Summary(app.Registry)
	if err != nil {
		logger.Warn("Failed to gather storage metrics", "error", err)
		return
	}
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]any, 0, 2*len(names))
	for _, name := range names {
		fields = append(fields, name, summary[name])
	}
	logger.Debug("Storage metrics", fields...)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
