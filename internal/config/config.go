// Package config consolidates exprc settings from, in increasing priority:
// built-in defaults, an optional TOML file, EXPRC_* environment variables and
// explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "EXPRC_CONFIG"

// Output formats for diagnostics.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Flag names shared with the CLI.
const (
	FlagLogLevel = "log-level"
	FlagNoColor  = "no-color"
	FlagStrict   = "strict"
	FlagFormat   = "format"
)

// Config holds every setting. A field that is not Valid was not set by its
// source and does not override lower-priority sources in Apply.
type Config struct {
	LogLevel null.String `toml:"log_level" envconfig:"EXPRC_LOG_LEVEL"`
	NoColor  null.Bool   `toml:"no_color" envconfig:"EXPRC_NO_COLOR"`
	Strict   null.Bool   `toml:"strict" envconfig:"EXPRC_STRICT"`
	Format   null.String `toml:"format" envconfig:"EXPRC_FORMAT"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: null.NewString("info", false),
		NoColor:  null.NewBool(false, false),
		Strict:   null.NewBool(false, false),
		Format:   null.NewString(FormatText, false),
	}
}

// Apply returns c overridden by every valid field of cfg.
func (c Config) Apply(cfg Config) Config {
	if cfg.LogLevel.Valid {
		c.LogLevel = cfg.LogLevel
	}
	if cfg.NoColor.Valid {
		c.NoColor = cfg.NoColor
	}
	if cfg.Strict.Valid {
		c.Strict = cfg.Strict
	}
	if cfg.Format.Valid {
		c.Format = cfg.Format
	}
	return c
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if _, err := logrus.ParseLevel(c.LogLevel.String); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel.String))
	}
	switch c.Format.String {
	case FormatText, FormatYAML, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid format %q, must be one of %s, %s, %s",
			c.Format.String, FormatText, FormatYAML, FormatJSON))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level, or info if it does not parse.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel.String)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// ReadFile decodes the TOML file at path. An empty path yields an empty
// Config; a path that does not exist is an error.
func ReadFile(fs afero.Fs, path string) (Config, error) {
	var conf Config
	if path == "" {
		return conf, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return conf, fmt.Errorf("reading config file: %w", err)
	}
	md, err := toml.Decode(string(data), &conf)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	return conf, nil
}

// ReadEnv reads the EXPRC_* variables through lookup.
func ReadEnv(lookup func(string) (string, bool)) (Config, error) {
	var conf Config
	if err := envconfig.Process("", &conf, lookup); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	return conf, nil
}

// FromFlags returns the settings explicitly set on flags.
func FromFlags(flags *pflag.FlagSet) (Config, error) {
	var conf Config
	var err error
	if conf.LogLevel, err = nullString(flags, FlagLogLevel); err != nil {
		return Config{}, err
	}
	if conf.NoColor, err = nullBool(flags, FlagNoColor); err != nil {
		return Config{}, err
	}
	if conf.Strict, err = nullBool(flags, FlagStrict); err != nil {
		return Config{}, err
	}
	if conf.Format, err = nullString(flags, FlagFormat); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Consolidate merges defaults, the file at path, the environment and flags,
// then validates the result.
func Consolidate(fs afero.Fs, path string, lookup func(string) (string, bool), flags *pflag.FlagSet) (Config, error) {
	fileConf, err := ReadFile(fs, path)
	if err != nil {
		return Config{}, err
	}
	envConf, err := ReadEnv(lookup)
	if err != nil {
		return Config{}, err
	}
	flagConf, err := FromFlags(flags)
	if err != nil {
		return Config{}, err
	}

	conf := Default().Apply(fileConf).Apply(envConf).Apply(flagConf)
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func nullBool(flags *pflag.FlagSet, key string) (null.Bool, error) {
	if flags.Lookup(key) == nil {
		return null.Bool{}, nil
	}
	v, err := flags.GetBool(key)
	if err != nil {
		return null.Bool{}, err
	}
	return null.NewBool(v, flags.Changed(key)), nil
}

func nullString(flags *pflag.FlagSet, key string) (null.String, error) {
	if flags.Lookup(key) == nil {
		return null.String{}, nil
	}
	v, err := flags.GetString(key)
	if err != nil {
		return null.String{}, err
	}
	return null.NewString(v, flags.Changed(key)), nil
}
