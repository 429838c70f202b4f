package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-declgen/internal/logging"
	"github.com/goliatone/go-declgen/internal/watch"
)

var (
	watchOutput string
	watchSkip   bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "directory for generated files (default: next to each input)")
	watchCmd.Flags().BoolVar(&watchSkip, "skip-initial", false, "do not expand existing documents on start")
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-expand documents whenever they change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		p, err := newPipeline(settings, pipelineOptions{})
		if err != nil {
			return err
		}
		logger := logging.Component("watch")
		tgt := target{dir: watchOutput}

		if !watchSkip {
			p.expandExisting(cmd.Context(), dir, tgt, cmd.OutOrStdout(), logger)
		}

		w := watch.New(dir, watch.WithLogger(logger))
		return w.Run(cmd.Context(), func(ctx context.Context, path string) {
			if _, err := p.expandAll(ctx, []string{path}, tgt, cmd.OutOrStdout()); err != nil {
				logger.Error().Err(err).Str("input", path).Msg("expansion failed")
			}
		})
	},
}

// expandExisting expands the documents already present under dir. Failures
// are logged and never stop the watcher.
func (p *pipeline) expandExisting(ctx context.Context, dir string, tgt target, w io.Writer, logger zerolog.Logger) {
	inputs, err := collectInputs([]string{dir})
	if err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("initial expansion skipped")
		return
	}
	if _, err := p.expandAll(ctx, inputs, tgt, w); err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("initial expansion failed")
	}
}
