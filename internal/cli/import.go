package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ocdg/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// ImportSummary is the import command's result.
type ImportSummary struct {
	Log      string `json:"log"`
	Database string `json:"database"`
	Objects  int    `json:"objects"`
	Events   int    `json:"events"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <log>",
		Short: "Store an event log in a database",
		Long: `Validate an event log and store it in a SQLite database.

Importing the same log twice is a no-op.

Example:
  ocdg import orders.yaml --db ./ocdg.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, logPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	log, err := loadLog(logPath)
	if err != nil {
		return outputError(formatter, ExitCommandError, err)
	}

	ctx := commandContext(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return outputCodedError(formatter, ExitCommandError, ErrCodeDatabase, err.Error(), err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := st.WriteLog(ctx, log); err != nil {
		return outputCodedError(formatter, ExitCommandError, ErrCodeDatabase, err.Error(), err)
	}
	slog.Debug("log imported", "objects", log.NumObjects(), "events", log.NumEvents())

	summary := ImportSummary{
		Log:      logPath,
		Database: opts.Database,
		Objects:  log.NumObjects(),
		Events:   log.NumEvents(),
	}
	return formatter.Success(summary)
}

func (s ImportSummary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "✓ Imported %d object(s), %d event(s) into %s\n", s.Objects, s.Events, s.Database)
}
