package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/go-readmaker/internal/dictionary"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "READMAKER"

type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	LogLevel string         `mapstructure:"log_level"`
}

type PathsConfig struct {
	DictionaryPath string `mapstructure:"dictionary_path"`
}

type AnalysisConfig struct {
	FallbackUnit  string `mapstructure:"fallback_unit"`
	MaxChunkRunes int    `mapstructure:"max_chunk_runes"`
	BatchWorkers  int    `mapstructure:"batch_workers"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			DictionaryPath: dictionary.DefaultPath,
		},
		Analysis: AnalysisConfig{
			FallbackUnit:  string(UnitCodepoint),
			MaxChunkRunes: 0,
			BatchWorkers:  4,
		},
		LogLevel: "info",
	}
}

// flagKeys maps each registered flag to the config key it sets.
var flagKeys = map[string]string{
	"dictionary":      "paths.dictionary_path",
	"fallback-unit":   "analysis.fallback_unit",
	"max-chunk-runes": "analysis.max_chunk_runes",
	"batch-workers":   "analysis.batch_workers",
	"log-level":       "log_level",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("dictionary", defaults.Paths.DictionaryPath, "Path to the dictionary artifact (zstd-compressed or raw)")
	fs.String("fallback-unit", defaults.Analysis.FallbackUnit, "Fallback segmentation unit: codepoint|grapheme")
	fs.Int("max-chunk-runes", defaults.Analysis.MaxChunkRunes, "Split inputs longer than this many runes at sentence boundaries (0 disables)")
	fs.Int("batch-workers", defaults.Analysis.BatchWorkers, "Maximum texts analysed concurrently in a batch")
	fs.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("paths.dictionary_path", EnvPrefix+"_PATHS_DICTIONARY_PATH", dictionary.EnvPath); err != nil {
		return Config{}, fmt.Errorf("bind dictionary env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("readmaker")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// bindFlags binds every known flag present in fs to its config key. Flags
// are bound by key rather than aliased so that env vars and config file
// values still reach the same key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.dictionary_path", c.Paths.DictionaryPath)
	v.SetDefault("analysis.fallback_unit", c.Analysis.FallbackUnit)
	v.SetDefault("analysis.max_chunk_runes", c.Analysis.MaxChunkRunes)
	v.SetDefault("analysis.batch_workers", c.Analysis.BatchWorkers)
	v.SetDefault("log_level", c.LogLevel)
}
