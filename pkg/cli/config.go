package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/unprivate/unprivate/internal/config"
)

const (
	configName = ".unprivate"
	configType = "yaml"
	envPrefix  = "UNPRIVATE"
)

const (
	defaultLogLevel  = "info"
	defaultColor     = "auto"
	defaultCacheSize = 256
)

var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidColor     = errors.New("invalid color mode")
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Config is everything the command line needs. Values come from flags, then
// UNPRIVATE_* environment variables, then the config file, then defaults.
type Config struct {
	config.Options `mapstructure:",squash" yaml:",inline"`

	MinifyWhitespace bool   `mapstructure:"minify-whitespace" yaml:"minify-whitespace"`
	OutDir           string `mapstructure:"outdir" yaml:"outdir"`
	MapOut           string `mapstructure:"map-out" yaml:"map-out"`
	PrintMap         bool   `mapstructure:"print-map" yaml:"print-map"`
	Diff             bool   `mapstructure:"diff" yaml:"diff"`
	LogLevel         string `mapstructure:"log-level" yaml:"log-level"`
	Color            string `mapstructure:"color" yaml:"color"`
	CacheSize        int    `mapstructure:"cache-size" yaml:"cache-size"`
}

// LoadConfig reads the configuration. An explicit "configPath" must exist;
// otherwise ".unprivate.yaml" is looked up in "cwd" and the home directory
// and may be missing. Flags in "flags" that were set on the command line win
// over every other source.
func LoadConfig(filesystem afero.Fs, cwd string, configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()
	viperCfg.SetFs(filesystem)

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viperCfg.AutomaticEnv()

	if flags != nil {
		if err := viperCfg.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(cwd)

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Options = cfg.Options.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	defaults := config.Defaults()
	viperCfg.SetDefault("prefix", defaults.Prefix)
	viperCfg.SetDefault("minify", defaults.Minify)
	viperCfg.SetDefault("a-to-z", defaults.ExtendedAlphabet)
	viperCfg.SetDefault("by-file", defaults.PerFileReset)

	viperCfg.SetDefault("minify-whitespace", false)
	viperCfg.SetDefault("outdir", "")
	viperCfg.SetDefault("map-out", "")
	viperCfg.SetDefault("print-map", false)
	viperCfg.SetDefault("diff", false)
	viperCfg.SetDefault("log-level", defaultLogLevel)
	viperCfg.SetDefault("color", defaultColor)
	viperCfg.SetDefault("cache-size", defaultCacheSize)
}

// Validate checks the values that cannot be checked by their type alone
func (c *Config) Validate() error {
	if err := c.Options.Validate(); err != nil {
		return err
	}

	switch c.LogLevel {
	case "info", "warning", "error", "silent":
	default:
		return fmt.Errorf("%w %q: expected info, warning, error or silent", ErrInvalidLogLevel, c.LogLevel)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w %q: expected auto, always or never", ErrInvalidColor, c.Color)
	}

	if c.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.CacheSize)
	}

	return nil
}
