// Package config loads tsq settings from defaults, an optional YAML
// config file, TSQ_* environment variables and command-line flags, in
// increasing order of precedence.
//
// Keys match the long flag names. The environment variable for a key is
// TSQ_ followed by the key upper-cased with dashes as underscores, e.g.
// TSQ_MAX_QUERY_LENGTH.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/tsq/internal/interchange"
)

// Setting keys.
const (
	KeyConfig         = "config"
	KeyFormat         = "format"
	KeyVerbose        = "verbose"
	KeyIndent         = "indent"
	KeyValidate       = "validate"
	KeyInputFormat    = "input-format"
	KeyMaxQueryLength = "max-query-length"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "TSQ"

// DefaultMaxQueryLength bounds raw query size in bytes.
const DefaultMaxQueryLength = 4096

// OutputFormats are the allowed values of the format key.
var OutputFormats = []string{"text", "json"}

// Config is the resolved configuration.
type Config struct {
	// Format is the CLI output format: "text" or "json".
	Format string

	Verbose bool

	// Indent pretty-prints structured output.
	Indent bool

	// Validate runs the validation layer before decoding.
	Validate bool

	// InputFormat is the interchange format read by decode and validate.
	InputFormat interchange.Format

	// MaxQueryLength is the encode length limit; zero disables it.
	MaxQueryLength int

	// File is the config file that was read, or "".
	File string
}

// New returns a viper instance with defaults and environment binding set
// up. Flags are bound later, in Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyIndent, true)
	v.SetDefault(KeyValidate, true)
	v.SetDefault(KeyInputFormat, string(interchange.JSON))
	v.SetDefault(KeyMaxQueryLength, DefaultMaxQueryLength)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load binds flags (may be nil), reads the config file and resolves the
// final settings.
//
// An explicitly named config file (--config or TSQ_CONFIG) must exist.
// Otherwise tsq.yaml is looked up in the working directory and in
// $HOME/.config/tsq, and its absence is not an error.
func Load(v *viper.Viper, flags *pflag.FlagSet) (*Config, error) {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	explicit := v.GetString(KeyConfig)
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("tsq")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tsq")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Format:         v.GetString(KeyFormat),
		Verbose:        v.GetBool(KeyVerbose),
		Indent:         v.GetBool(KeyIndent),
		Validate:       v.GetBool(KeyValidate),
		MaxQueryLength: v.GetInt(KeyMaxQueryLength),
		File:           v.ConfigFileUsed(),
	}

	if !isOutputFormat(cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, OutputFormats)
	}
	inputFormat, err := interchange.ParseFormat(v.GetString(KeyInputFormat))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyInputFormat, err)
	}
	cfg.InputFormat = inputFormat
	if cfg.MaxQueryLength < 0 {
		return nil, fmt.Errorf("invalid %s %d: must be non-negative", KeyMaxQueryLength, cfg.MaxQueryLength)
	}

	return cfg, nil
}

func isOutputFormat(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
