// Package config resolves declgen settings from defaults, an optional
// .declgen.yaml file, DECLGEN_* environment variables and bound CLI flags,
// then validates the result.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/goliatone/go-declgen/pkg/decl"
	"github.com/goliatone/go-declgen/pkg/expand"
	"github.com/goliatone/go-declgen/pkg/render"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. DECLGEN_RENDERER.
	EnvPrefix = "DECLGEN"
	// FileName is the config file looked up without extension.
	FileName = ".declgen"
)

// Config is the resolved settings tree.
type Config struct {
	Renderer   string     `mapstructure:"renderer" validate:"required,oneof=go text manifest"`
	Package    string     `mapstructure:"package" validate:"omitempty,goident"`
	Suffix     string     `mapstructure:"suffix" validate:"required"`
	Format     string     `mapstructure:"format" validate:"omitempty,oneof=dsl yaml json"`
	Header     bool       `mapstructure:"header"`
	Gofmt      bool       `mapstructure:"gofmt"`
	Jobs       int        `mapstructure:"jobs" validate:"gte=1,lte=256"`
	Imports    []string   `mapstructure:"imports" validate:"dive,required"`
	Preset     string     `mapstructure:"preset"`
	Delimiters Delimiters `mapstructure:"delimiters"`
	HTTP       HTTP       `mapstructure:"http"`
	Log        Log        `mapstructure:"log"`
}

// Delimiters override the placeholder brackets in template bodies.
type Delimiters struct {
	Left  string `mapstructure:"left" validate:"required"`
	Right string `mapstructure:"right" validate:"required"`
}

// HTTP controls remote document loading.
type HTTP struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// Log controls the process logger.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// Defaults seeds every key so environment overrides resolve through
// AutomaticEnv.
func Defaults(v *viper.Viper) {
	v.SetDefault("renderer", "go")
	v.SetDefault("package", "")
	v.SetDefault("suffix", "_gen")
	v.SetDefault("format", "")
	v.SetDefault("header", true)
	v.SetDefault("gofmt", true)
	v.SetDefault("jobs", 4)
	v.SetDefault("imports", []string{})
	v.SetDefault("preset", "")
	v.SetDefault("delimiters.left", expand.DefaultDelimiters.Left)
	v.SetDefault("delimiters.right", expand.DefaultDelimiters.Right)
	v.SetDefault("http.enabled", false)
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// New returns a viper instance with defaults and environment lookup wired.
func New() *viper.Viper {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (explicit path, or .declgen.* searched in the
// working directory then $HOME/.config/declgen) and decodes the merged
// settings. A missing search-path file is not an error; a missing explicit
// file is.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = New()
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "declgen"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	return v
}

// Validate checks cfg against its struct tags.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config: validation failed: %s", strings.Join(msgs, "; "))
}

// LoaderOptions maps the HTTP settings onto loader options.
func (c Config) LoaderOptions() []decl.LoaderOption {
	if !c.HTTP.Enabled {
		return nil
	}
	return []decl.LoaderOption{decl.WithHTTPFallback(c.HTTP.Timeout)}
}

// ParserOptions maps delimiters and format onto parser options.
func (c Config) ParserOptions() []decl.ParserOption {
	return []decl.ParserOption{
		decl.WithDelimiters(expand.Delimiters{Left: c.Delimiters.Left, Right: c.Delimiters.Right}),
		decl.WithFormat(decl.Format(c.Format)),
	}
}

// RenderOptions maps output settings onto render options. defaultPackage is
// used when neither the config nor the document names a package.
func (c Config) RenderOptions(defaultPackage string) render.RenderOptions {
	return render.RenderOptions{
		Package:        c.Package,
		DefaultPackage: defaultPackage,
		SkipHeader:     !c.Header,
		SkipFormat:     !c.Gofmt,
	}
}
