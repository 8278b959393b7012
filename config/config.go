// Package config loads jarhc settings from a config file, .env and JARHC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/viant/jarhc/analyzer"
	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

// EnvPrefix prefixes environment overrides, e.g. JARHC_RELEASE or JARHC_OUTPUT_FORMAT
const EnvPrefix = "JARHC"

// Config represents the complete jarhc configuration
type Config struct {
	Release     int             `mapstructure:"release" yaml:"release"`
	Classpath   []string        `mapstructure:"classpath" yaml:"classpath"`
	Coordinates []string        `mapstructure:"coordinates" yaml:"coordinates"` // location=group:artifact:version
	Severity    string          `mapstructure:"severity" yaml:"severity"`
	Title       string          `mapstructure:"title" yaml:"title"`
	Label       string          `mapstructure:"label" yaml:"label"`
	Workers     int             `mapstructure:"workers" yaml:"workers"`
	MaxRelease  int             `mapstructure:"maxRelease" yaml:"maxRelease"`
	NestedJars  bool            `mapstructure:"nestedJars" yaml:"nestedJars"`
	CacheSize   int             `mapstructure:"cacheSize" yaml:"cacheSize"`
	Platform    []string        `mapstructure:"platform" yaml:"platform"` // extra platform lists (YAML or TOML)
	Analyzers   AnalyzersConfig `mapstructure:"analyzers" yaml:"analyzers"`
	Output      OutputConfig    `mapstructure:"output" yaml:"output"`
	Store       StoreConfig     `mapstructure:"store" yaml:"store"`
	Log         LogConfig       `mapstructure:"log" yaml:"log"`
}

// AnalyzersConfig selects analyzers by name
type AnalyzersConfig struct {
	Enable  []string `mapstructure:"enable" yaml:"enable"`
	Disable []string `mapstructure:"disable" yaml:"disable"`
}

// OutputConfig describes where the report is written; an empty path means stdout
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// StoreConfig describes the report history database; an empty path disables it
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig describes the logger
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	loader := graph.DefaultConfig()
	return &Config{
		Release:    loader.MaxRelease,
		Severity:   string(report.Info),
		Title:      "JAR Health Check",
		Workers:    loader.Workers,
		MaxRelease: loader.MaxRelease,
		NestedJars: loader.NestedJars,
		CacheSize:  loader.CacheSize,
		Output:     OutputConfig{Format: string(report.YAML)},
		Log:        LogConfig{Level: "warn", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("release", 0)
	v.SetDefault("classpath", []string{})
	v.SetDefault("coordinates", []string{})
	v.SetDefault("severity", defaults.Severity)
	v.SetDefault("title", defaults.Title)
	v.SetDefault("label", "")
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("maxRelease", defaults.MaxRelease)
	v.SetDefault("nestedJars", defaults.NestedJars)
	v.SetDefault("cacheSize", defaults.CacheSize)
	v.SetDefault("platform", []string{})
	v.SetDefault("analyzers.enable", []string{})
	v.SetDefault("analyzers.disable", []string{})
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.path", "")
	v.SetDefault("store.path", "")
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}

// Load reads configuration. An explicit location must exist; otherwise jarhc.yaml, jarhc.toml
// or jarhc.json is looked up in the working directory and is optional. A .env file next to
// the configuration is loaded before environment overrides apply.
func Load(location string) (*Config, error) {
	envFile := ".env"
	if location != "" {
		envFile = filepath.Join(filepath.Dir(location), ".env")
	}
	_ = godotenv.Load(envFile)

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if location != "" {
		v.SetConfigFile(location)
	} else {
		v.SetConfigName("jarhc")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if location != "" || !errors.As(err, &notFound) {
			return nil, jerrors.Wrap(jerrors.InvalidConfig, err, "failed to read config %v", location)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, jerrors.Wrap(jerrors.InvalidConfig, err, "failed to decode config")
	}
	if cfg.Release == 0 {
		cfg.Release = cfg.MaxRelease
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and names
func (c *Config) Validate() error {
	if c.MaxRelease < graph.BaseRelease+1 {
		return jerrors.New(jerrors.InvalidConfig, "maxRelease must be at least %d: %d", graph.BaseRelease+1, c.MaxRelease)
	}
	if c.Release < graph.BaseRelease || c.Release > c.MaxRelease {
		return jerrors.New(jerrors.InvalidConfig, "release must be between %d and %d: %d", graph.BaseRelease, c.MaxRelease, c.Release)
	}
	if c.Workers < 1 {
		return jerrors.New(jerrors.InvalidConfig, "workers must be positive: %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return jerrors.New(jerrors.InvalidConfig, "cacheSize must not be negative: %d", c.CacheSize)
	}
	switch report.Severity(strings.ToLower(c.Severity)) {
	case report.Info, report.Warning, report.Error, "":
	default:
		return jerrors.New(jerrors.InvalidConfig, "unsupported severity: %v", c.Severity)
	}
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return jerrors.Wrap(jerrors.InvalidConfig, err, "invalid output")
	}
	known := map[string]bool{}
	for _, name := range analyzer.Names() {
		known[name] = true
	}
	for _, name := range append(append([]string{}, c.Analyzers.Enable...), c.Analyzers.Disable...) {
		if !known[name] {
			return jerrors.New(jerrors.InvalidConfig, "unknown analyzer: %v, expected one of %v", name, strings.Join(analyzer.Names(), ", "))
		}
	}
	if _, err := c.CoordinateMap(); err != nil {
		return err
	}
	return nil
}

// CoordinateMap parses Coordinates into a location keyed map
func (c *Config) CoordinateMap() (map[string]*graph.Coordinate, error) {
	result := map[string]*graph.Coordinate{}
	for _, item := range c.Coordinates {
		idx := strings.LastIndex(item, "=")
		if idx == -1 {
			return nil, jerrors.New(jerrors.InvalidConfig, "invalid coordinate %q: expected location=group:artifact:version", item)
		}
		coordinate, err := graph.ParseCoordinate(item[idx+1:])
		if err != nil {
			return nil, jerrors.Wrap(jerrors.InvalidConfig, err, "invalid coordinate")
		}
		result[strings.TrimSpace(item[:idx])] = coordinate
	}
	return result, nil
}

// InspectorConfig returns the loader settings
func (c *Config) InspectorConfig() *graph.Config {
	result := &graph.Config{
		MaxRelease: c.MaxRelease,
		NestedJars: c.NestedJars,
		Resources:  true,
		CacheSize:  c.CacheSize,
		Workers:    c.Workers,
	}
	result.Init()
	return result
}

// AnalyzerConfig returns the analyzer settings
func (c *Config) AnalyzerConfig() *analyzer.Config {
	return &analyzer.Config{
		Severity: report.ParseSeverity(c.Severity),
		Enable:   c.Analyzers.Enable,
		Disable:  c.Analyzers.Disable,
		Workers:  c.Workers,
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("Config[release=%d,classpath=%d,output=%v]", c.Release, len(c.Classpath), c.Output.Format)
}
