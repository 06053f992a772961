package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ocdg/internal/export"
	"github.com/roach88/ocdg/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// StoredBuild is a stored build with its graph.
type StoredBuild struct {
	Build store.BuildRecord `json:"build"`
	Graph export.Document   `json:"graph"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [build-id]",
		Short: "List stored builds or print one",
		Long: `Without a build id, list every build stored in the database in
the order they were written. With a build id, print that build's graph.

Examples:
  ocdg show --db ./ocdg.db
  ocdg show --db ./ocdg.db 01933f5e-7d2a-7b3c-9a1e-4f6d8c2b1a00 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runShow(opts, id, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

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

	if id == "" {
		builds, err := st.ListBuilds(ctx)
		if err != nil {
			return outputCodedError(formatter, ExitCommandError, ErrCodeDatabase, err.Error(), err)
		}
		return formatter.Success(BuildList(builds))
	}

	doc, rec, err := st.ReadBuild(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return outputCodedError(formatter, ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("build not found: %s", id), err)
	}
	if err != nil {
		return outputCodedError(formatter, ExitCommandError, ErrCodeDatabase, err.Error(), err)
	}
	return formatter.Success(StoredBuild{Build: rec, Graph: doc})
}

// BuildList is the stored builds in seq order.
type BuildList []store.BuildRecord

func (l BuildList) WriteText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No builds found.")
		return
	}
	for _, b := range l {
		fmt.Fprintf(w, "%3d  %s  nodes=%d edges=%d  %s\n",
			b.Seq, b.ID, b.Nodes, b.Edges, strings.Join(b.Relations, ","))
	}
}

func (sb StoredBuild) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Build %s (seq %d)\n", sb.Build.ID, sb.Build.Seq)
	fmt.Fprintf(w, "Digest: %s\n\n", sb.Build.Digest)

	fmt.Fprintln(w, "Nodes:")
	for _, n := range sb.Graph.Nodes {
		fmt.Fprintf(w, "  %d (%s) %v\n", n.ID, n.Type, n.Lifeline)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Edges:")
	for _, e := range sb.Graph.Edges {
		fmt.Fprintf(w, "  %d -> %d %s\n", e.Source, e.Target, export.FormatRelations(e.Relations))
	}
}
