package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cmmoran/dtogen/pkg/action/status"
)

func init() {
	rootCmd.AddCommand(NewStatusCommand())
}

func NewStatusCommand() *cobra.Command {
	// statusCmd represents the dtogen status command
	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "check generated DTOs",
		Long:  "Compare the generated sources with the checksums recorded by the last run",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindOptionFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(false)
			if err != nil {
				return err
			}
			artifacts, err := status.Check(afero.NewOsFs(), opts)
			if err != nil {
				return err
			}
			dirty := status.Dirty(artifacts)
			for _, a := range dirty {
				_, _ = fmt.Fprintf(c.OutOrStdout(), "%-8s %s (%s)\n", a.State, a.File, a.Type)
			}
			if len(dirty) > 0 {
				return errors.WithHint(
					errors.Newf("%s changed since the last generation", count(len(dirty), "artifact")),
					"run dtogen generate to restore them",
				)
			}
			_, _ = fmt.Fprintf(c.OutOrStdout(), "%s up to date\n", count(len(artifacts), "artifact"))
			return nil
		},
	}
	addOptionFlags(statusCmd.Flags(), false)

	return statusCmd
}
