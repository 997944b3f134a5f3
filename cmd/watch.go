package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmmoran/dtogen/pkg/action/generate"
	"github.com/cmmoran/dtogen/pkg/action/watch"
)

func init() {
	rootCmd.AddCommand(NewWatchCommand())
}

func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	// watchCmd represents the dtogen watch command
	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "regenerate DTOs on change",
		Long:  "Generate, then regenerate every time a model descriptor below the input directory changes",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindOptionFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(true)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(opts,
				watch.WithDebounce(debounce),
				watch.WithCallback(func(res *generate.Result, err error) {
					if err == nil {
						printSummary(c.OutOrStdout(), opts, res)
					}
				}),
			)
			return w.Run(ctx)
		},
	}
	addOptionFlags(watchCmd.Flags(), true)
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "time descriptor changes settle before regenerating")

	return watchCmd
}
