// Package cli wires the declgen commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-declgen/internal/logging"
	"github.com/goliatone/go-declgen/pkg/config"
)

var (
	configFile string
	settings   config.Config
	v          = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "declgen",
	Short: "Expand declaration templates into Go source",
	Long: `declgen reads declaration documents (.decl, YAML or JSON), expands every
template once per variant and writes the generated declarations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default .declgen.yaml, then $HOME/.config/declgen)")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error, disabled)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.StringP("renderer", "r", "go", "output renderer (go, text, manifest)")
	flags.StringP("package", "p", "", "package clause override")
	flags.StringP("format", "f", "", "force document format (dsl, yaml, json)")
	flags.Int("jobs", 4, "files processed in parallel")
	flags.String("suffix", "_gen", "suffix appended to generated file names")
	flags.Bool("header", true, "write the generated-code header")
	flags.Bool("gofmt", true, "format Go output with gofmt")
	flags.Bool("http", false, "allow loading documents over HTTP")

	mustBind := func(key, flag string) {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	mustBind("log.level", "log-level")
	mustBind("log.format", "log-format")
	mustBind("http.enabled", "http")
	for _, name := range []string{"renderer", "package", "format", "jobs", "suffix", "header", "gofmt"} {
		mustBind(name, name)
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadSettings(cmd *cobra.Command) error {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	if err := logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: logging.Format(cfg.Log.Format),
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}
	settings = cfg
	logger := logging.Component("cli")
	logger.Debug().
		Str("config", v.ConfigFileUsed()).
		Str("renderer", cfg.Renderer).
		Int("jobs", cfg.Jobs).
		Msg("settings loaded")
	return nil
}
