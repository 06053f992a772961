package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions carries the persistent flags shared by every subcommand.
type RootOptions struct {
	Verbose bool
	Format  string // text or json
}

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand assembles the ocdg command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	root := &cobra.Command{
		Use:   "ocdg",
		Short: "Mine object-centric directed graphs from event logs",
		Long: `Mine relations between objects of an object-centric event log.

Every object that takes part in an event becomes a node. Directed edges carry
the relation kinds that hold between two objects, each justified by the set of
events that support it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log build phases to stderr")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")

	root.AddCommand(
		NewBuildCommand(opts),
		NewRelationsCommand(opts),
		NewImportCommand(opts),
		NewShowCommand(opts),
		NewTestCommand(opts),
	)
	return root
}

// configureLogging routes the default slog logger to w. Only warnings are
// shown unless verbose is set.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
