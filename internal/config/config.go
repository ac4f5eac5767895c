// Package config loads sqlitemerge configuration.
//
// Values are layered with koanf, lowest to highest precedence:
// built-in defaults, a YAML config file, SQLITEMERGE_* environment
// variables, and command line flags that were explicitly set.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/tordrt/sqlitemerge/internal/db"
	"github.com/tordrt/sqlitemerge/internal/merge"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "SQLITEMERGE_"

// Default configuration values
const (
	DefaultSourceDir = "."
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// configFiles are searched in the working directory when no file is given
var configFiles = []string{"sqlitemerge.yaml", "sqlitemerge.yml"}

// Config holds all sqlitemerge options
type Config struct {
	SourceDir string        `koanf:"source_dir"`
	Output    string        `koanf:"output"`
	Extension string        `koanf:"extension"`
	Driver    string        `koanf:"driver"`
	Report    string        `koanf:"report"`
	Summary   bool          `koanf:"summary"`
	NoColor   bool          `koanf:"no_color"`
	Logging   LoggingConfig `koanf:"logging"`

	// ConfigFile is the file the values were read from, if any
	ConfigFile string `koanf:"-"`
}

// LoggingConfig controls structured diagnostics on stderr
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults returns the built-in configuration
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"source_dir":     DefaultSourceDir,
		"output":         merge.DefaultOutput,
		"extension":      merge.DefaultExtension,
		"driver":         db.DefaultDriver,
		"report":         "",
		"summary":        false,
		"no_color":       false,
		"logging.level":  DefaultLogLevel,
		"logging.format": DefaultLogFormat,
	}
}

// Load reads configuration from defaults, cfgFile (or a sqlitemerge.yaml
// in the working directory), the environment and flags. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	cfgFile = findConfigFile(cfgFile)
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: SQLITEMERGE_LOGGING_LEVEL -> logging.level
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = cfgFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"output":     "output",
	"extension":  "extension",
	"driver":     "driver",
	"report":     "report",
	"summary":    "summary",
	"no-color":   "no_color",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "logging_"); ok {
		return "logging." + rest
	}
	return key
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Validate checks the configuration and normalizes the extension
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if c.Extension == "" {
		return fmt.Errorf("extension is required")
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if !db.ValidDriver(c.Driver) {
		return fmt.Errorf("invalid driver: %s (must be '%s' or '%s')", c.Driver, db.DriverCGO, db.DriverPure)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Logging.Format)
	}
	return nil
}
