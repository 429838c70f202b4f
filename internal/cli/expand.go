package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	expandOutput  string
	expandStdout  bool
	expandImports []string
	expandPreset  string
	expandBlocks  []string
)

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().StringVarP(&expandOutput, "output", "o", "", "directory for generated files (default: next to each input)")
	expandCmd.Flags().BoolVar(&expandStdout, "stdout", false, "write generated output to stdout instead of files")
	expandCmd.Flags().StringSliceVarP(&expandImports, "import", "i", nil, "extra import path (repeatable)")
	expandCmd.Flags().StringVar(&expandPreset, "preset", "", "YAML or JSON preset applied to every result")
	expandCmd.Flags().StringSliceVarP(&expandBlocks, "block", "b", nil, "only expand the named block (repeatable)")
}

var expandCmd = &cobra.Command{
	Use:   "expand <file|dir|url>...",
	Short: "Expand declaration documents into generated files",
	Long: `Expand every block of each document once per variant and write the result
to <name><suffix>.go next to the input. Directories are searched for .decl files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := collectInputs(args)
		if err != nil {
			return err
		}
		p, err := newPipeline(settings, pipelineOptions{imports: expandImports, preset: expandPreset})
		if err != nil {
			return err
		}

		written, err := p.expandAll(cmd.Context(), inputs, target{
			dir:    expandOutput,
			stdout: expandStdout,
			blocks: expandBlocks,
		}, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		return nil
	},
}
