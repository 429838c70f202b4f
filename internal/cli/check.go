package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <file|dir|url>...",
	Short: "Validate declaration documents without writing output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := collectInputs(args)
		if err != nil {
			return err
		}
		p, err := newPipeline(settings, pipelineOptions{})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, report := range p.checkAll(cmd.Context(), inputs) {
			if report.Err != nil {
				failed++
				fmt.Fprintf(out, "%s: %v\n", report.Input, report.Err)
				continue
			}
			fmt.Fprintf(out, "%s: ok (%d declarations)\n", report.Input, report.Declarations)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed", failed, len(inputs))
		}
		return nil
	},
}
