package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-declgen/internal/scaffold"
	"github.com/goliatone/go-declgen/pkg/expand"
)

var newForce bool

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().BoolVar(&newForce, "force", false, "overwrite an existing file")
}

var newCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Interactively scaffold a .decl document",
	Long:  "Prompt for a package, imports and blocks, then write the document. Use - to print it instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := "declarations.decl"
		if len(args) == 1 {
			dest = args[0]
		}
		if dest != "-" && !newForce {
			if _, err := os.Stat(dest); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", dest)
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}

		wizard := scaffold.New(scaffold.NewSurveyDriver()).WithDelimiters(expand.Delimiters{
			Left:  settings.Delimiters.Left,
			Right: settings.Delimiters.Right,
		})
		res, err := wizard.Run(cmd.Context())
		if err != nil {
			return err
		}

		if dest == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), res.Source)
			return err
		}
		if err := os.WriteFile(dest, []byte(res.Source), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d blocks)\n", dest, len(res.Spec.Blocks))
		return nil
	},
}
