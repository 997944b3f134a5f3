package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/dtogen/pkg/action/generate"
	"github.com/cmmoran/dtogen/pkg/options"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the dtogen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate DTOs",
		Long:  "Mirror the model types described below the input directory into DTO sources",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindOptionFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(true)
			if err != nil {
				return err
			}
			res, err := generate.Generate(afero.NewOsFs(), opts)
			if err != nil {
				return err
			}
			printSummary(c.OutOrStdout(), opts, res)
			return nil
		},
	}
	addOptionFlags(generateCmd.Flags(), true)

	return generateCmd
}

func printSummary(w io.Writer, opts *options.Options, res *generate.Result) {
	ch := res.Changes
	mirrored := len(ch.Added) + len(ch.Updated) + len(ch.Unchanged)
	_, _ = fmt.Fprintf(w, "mirrored %s into %s (%d added, %d updated, %d unchanged",
		count(mirrored, "type"), opts.NamespaceDir(), len(ch.Added), len(ch.Updated), len(ch.Unchanged))
	if len(res.Pruned) > 0 {
		_, _ = fmt.Fprintf(w, ", %d pruned", len(res.Pruned))
	} else if len(ch.Removed) > 0 {
		_, _ = fmt.Fprintf(w, ", %s kept, use --prune to delete", count(len(ch.Removed), "stale artifact"))
	}
	_, _ = fmt.Fprintln(w, ")")
}
