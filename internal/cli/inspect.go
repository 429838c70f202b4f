package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var inspectVariants bool

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVarP(&inspectVariants, "variants", "v", false, "list every variant with its bindings")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|url>",
	Short: "Show the blocks, placeholders and variants of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(settings, pipelineOptions{})
		if err != nil {
			return err
		}
		return p.inspect(cmd.Context(), args[0], inspectVariants, cmd.OutOrStdout())
	},
}

func (p *pipeline) inspect(ctx context.Context, input string, variants bool, w io.Writer) error {
	spec, err := p.orch.Parse(ctx, p.request(input, nil))
	if err != nil {
		return err
	}

	var data [][]string
	for _, block := range spec.Blocks {
		data = append(data, []string{
			block.Name,
			block.Position.String(),
			strings.Join(block.Template.Placeholders, ", "),
			strconv.Itoa(len(block.Variants)),
		})
	}
	writeTable(w, []string{"BLOCK", "POSITION", "PLACEHOLDERS", "VARIANTS"}, data)

	if !variants {
		return nil
	}
	data = data[:0]
	for _, block := range spec.Blocks {
		for i, variant := range block.Variants {
			bindings := make([]string, 0, variant.Arity())
			for j, name := range block.Template.Placeholders {
				bindings = append(bindings, fmt.Sprintf("%s=%s", name, variant.Tokens[j]))
			}
			data = append(data, []string{block.Name, strconv.Itoa(i), strings.Join(bindings, " ")})
		}
	}
	fmt.Fprintln(w)
	writeTable(w, []string{"BLOCK", "INDEX", "BINDINGS"}, data)
	return nil
}

func writeTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()
}
