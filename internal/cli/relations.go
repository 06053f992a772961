package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ocdg/internal/ocdg"
)

// RelationInfo describes one relation kind.
type RelationInfo struct {
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	Symmetric bool   `json:"symmetric"`
}

// NewRelationsCommand creates the relations command.
func NewRelationsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "relations",
		Short: "List the relation kinds",
		Long: `List every relation kind with its evaluation tier.

Symmetric kinds are evaluated once per unordered pair and recorded in both
directions with the same evidence.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return formatter.Success(relationInfos())
		},
	}
}

// RelationList is the relations command's result.
type RelationList []RelationInfo

func relationInfos() RelationList {
	kinds := ocdg.AllKinds()
	infos := make(RelationList, len(kinds))
	for i, k := range kinds {
		infos[i] = RelationInfo{
			Name:      k.String(),
			Tier:      k.Tier().String(),
			Symmetric: k.Symmetric(),
		}
	}
	return infos
}

// WriteText prints one aligned line per kind.
func (l RelationList) WriteText(w io.Writer) {
	for _, info := range l {
		direction := "directed"
		if info.Symmetric {
			direction = "symmetric"
		}
		fmt.Fprintf(w, "%-12s %-9s %s\n", info.Name, info.Tier, direction)
	}
}
