package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ocdg/internal/export"
	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/ocel"
	"github.com/roach88/ocdg/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Relations []string
	Workers   int
	Output    string // output file path
	GraphML   bool
	Database  string

	// RunIDGenerator allows overriding the build id generator (for testing).
	// If nil, the store's UUIDv7 generator is used.
	RunIDGenerator store.RunIDGenerator
}

// BuildSummary is the build command's result.
type BuildSummary struct {
	Log       string           `json:"log"`
	Relations []string         `json:"relations"`
	Events    int              `json:"events"`
	Nodes     int              `json:"nodes"`
	Edges     int              `json:"edges"`
	Counts    map[string]int   `json:"counts"`
	Digest    string           `json:"digest"`
	BuildID   string           `json:"build_id,omitempty"`
	Output    string           `json:"output,omitempty"`
	Graph     *export.Document `json:"graph,omitempty"`
	GraphML   string           `json:"graphml,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <log>",
		Short: "Mine the relation graph of an event log",
		Long: `Build the object-centric directed graph of an event log.

The log is read from a YAML, JSON or CUE file. Relations are computed in
three phases: primitive relations during ingestion, then instance and
whole-neighbourhood relations in parallel over all nodes.

Examples:
  ocdg build orders.yaml
  ocdg build orders.yaml --relations cobirth,split --out graph.json
  ocdg build orders.json --graphml --out graph.graphml
  ocdg build orders.yaml --db ./ocdg.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Relations, "relations", "r", []string{"ALL"}, "relation kinds to compute (comma separated, or ALL)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "evaluation goroutines (0 = GOMAXPROCS)")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "write the graph to this file")
	cmd.Flags().BoolVar(&opts.GraphML, "graphml", false, "write GraphML instead of canonical JSON")
	cmd.Flags().StringVar(&opts.Database, "db", "", "also store the log and the build in this SQLite database")

	return cmd
}

func runBuild(opts *BuildOptions, logPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	sel, err := ocdg.ParseSelection(opts.Relations)
	if err != nil {
		return outputCodedError(formatter, ExitCommandError, ErrCodeRelations, err.Error(), err)
	}

	log, err := loadLog(logPath)
	if err != nil {
		return outputError(formatter, ExitCommandError, err)
	}
	formatter.VerboseLog("Loaded %d object(s), %d event(s) from %s", log.NumObjects(), log.NumEvents(), logPath)

	res, err := ocdg.Build(log, sel, ocdg.WithWorkers(opts.Workers))
	if err != nil {
		return outputError(formatter, ExitFailure, err)
	}

	doc := export.FromResult(res)
	digest, err := export.Digest(doc)
	if err != nil {
		return outputError(formatter, ExitFailure, err)
	}

	summary := BuildSummary{
		Log:       logPath,
		Relations: doc.Relations,
		Events:    res.Stats.Events,
		Nodes:     res.Stats.Nodes,
		Edges:     len(doc.Edges),
		Counts:    make(map[string]int, len(res.Stats.Relations)),
		Digest:    digest,
		Output:    opts.Output,
	}
	for kind, n := range res.Stats.Relations {
		summary.Counts[kind.String()] = n
	}

	if opts.Database != "" {
		id, err := storeBuild(commandContext(cmd), opts, log, doc)
		if err != nil {
			return outputCodedError(formatter, ExitCommandError, ErrCodeDatabase, err.Error(), err)
		}
		summary.BuildID = id
	}

	data, err := renderGraph(doc, opts.GraphML)
	if err != nil {
		return outputError(formatter, ExitFailure, err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return outputCodedError(formatter, ExitCommandError, ErrCodeWriteFailed,
				fmt.Sprintf("writing output file: %v", err), err)
		}
	} else if formatter.Format == "json" {
		// Without --out the graph travels inside the envelope.
		if opts.GraphML {
			summary.GraphML = string(data)
		} else {
			summary.Graph = &doc
		}
	} else if opts.GraphML {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return formatter.Success(summary)
}

// storeBuild persists the log and the exported graph. Returns the build id.
func storeBuild(ctx context.Context, opts *BuildOptions, log *ocel.Log, doc export.Document) (string, error) {
	var storeOpts []store.Option
	if opts.RunIDGenerator != nil {
		storeOpts = append(storeOpts, store.WithRunIDGenerator(opts.RunIDGenerator))
	}

	slog.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := st.WriteLog(ctx, log); err != nil {
		return "", err
	}
	rec, err := st.WriteBuild(ctx, doc)
	if err != nil {
		return "", err
	}
	slog.Debug("build stored", "id", rec.ID, "seq", rec.Seq)
	return rec.ID, nil
}

// renderGraph encodes the document as canonical JSON or GraphML.
func renderGraph(doc export.Document, graphML bool) ([]byte, error) {
	if graphML {
		var buf bytes.Buffer
		if err := export.WriteGraphML(&buf, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return export.MarshalCanonical(doc)
}

func (s BuildSummary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "✓ Built graph from %s\n\n", s.Log)
	fmt.Fprintf(w, "  Events: %d\n", s.Events)
	fmt.Fprintf(w, "  Nodes:  %d\n", s.Nodes)
	fmt.Fprintf(w, "  Edges:  %d\n", s.Edges)
	fmt.Fprintln(w)

	if len(s.Relations) > 0 {
		fmt.Fprintln(w, "Relations:")
		for _, name := range s.Relations {
			fmt.Fprintf(w, "  %-12s %d\n", name, s.Counts[name])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Digest: %s\n", s.Digest)
	if s.BuildID != "" {
		fmt.Fprintf(w, "Stored build %s\n", s.BuildID)
	}
	if s.Output != "" {
		fmt.Fprintf(w, "Wrote graph to %s\n", s.Output)
	}
}
