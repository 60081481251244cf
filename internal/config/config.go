// Package config loads metamodel settings from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvPackages    = "CAUSEWAY_PACKAGES"
	EnvDir         = "CAUSEWAY_DIR"
	EnvLogLevel    = "CAUSEWAY_LOG_LEVEL"
	EnvParallelism = "CAUSEWAY_INTROSPECT_PARALLELISM"
	EnvCacheSize   = "CAUSEWAY_SEMANTICS_CACHE_SIZE"
)

// Config is the complete metamodel configuration.
type Config struct {
	// Packages are go/packages patterns naming the domain packages.
	Packages []string `yaml:"packages"`
	// Dir is the working directory packages are resolved from.
	Dir        string           `yaml:"dir,omitempty"`
	LogLevel   string           `yaml:"log_level"`
	Introspect IntrospectConfig `yaml:"introspect"`
	Semantics  SemanticsConfig  `yaml:"semantics"`
	Validation ValidationConfig `yaml:"validation"`
}

// IntrospectConfig tunes specification loading.
type IntrospectConfig struct {
	// Parallelism bounds concurrent introspection; values below 1 mean one.
	Parallelism int `yaml:"parallelism"`
}

// SemanticsConfig tunes value semantics resolution.
type SemanticsConfig struct {
	// CacheSize is the number of resolved (feature, class) pairs kept.
	CacheSize int `yaml:"cache_size"`
}

// ValidationConfig toggles individual metamodel validators.
type ValidationConfig struct {
	DeprecatedFacets          bool `yaml:"deprecated_facets"`
	ConflictingOptionality    bool `yaml:"conflicting_optionality"`
	LogicalTypeNames          bool `yaml:"logical_type_names"`
	OrphanedSupportingMethods bool `yaml:"orphaned_supporting_methods"`
	UnknownDirectives         bool `yaml:"unknown_directives"`
	// RequireExplicitLogicalTypeName flags entities and view models whose
	// logical type name falls back to the class name.
	RequireExplicitLogicalTypeName bool `yaml:"require_explicit_logical_type_name"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Packages:   []string{"./..."},
		LogLevel:   "info",
		Introspect: IntrospectConfig{Parallelism: 4},
		Semantics:  SemanticsConfig{CacheSize: 256},
		Validation: ValidationConfig{
			DeprecatedFacets:          true,
			ConflictingOptionality:    true,
			LogicalTypeNames:          true,
			OrphanedSupportingMethods: true,
			UnknownDirectives:         true,
		},
	}
}

// LoadFile reads a YAML configuration file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data on top of the defaults. Keys absent from data keep
// their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Packages) == 0 {
		cfg.Packages = []string{"./..."}
	}

	if cfg.Introspect.Parallelism < 1 {
		cfg.Introspect.Parallelism = 1
	}

	if cfg.Semantics.CacheSize < 1 {
		cfg.Semantics.CacheSize = Default().Semantics.CacheSize
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	return nil
}

// ApplyEnv overrides cfg from the environment looked up through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvPackages); v != "" {
		c.Packages = splitList(v)
	}

	if v := getenv(EnvDir); v != "" {
		c.Dir = v
	}

	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	if v := getenv(EnvParallelism); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvParallelism, v, err)
		}

		c.Introspect.Parallelism = n
	}

	if v := getenv(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvCacheSize, v, err)
		}

		c.Semantics.CacheSize = n
	}

	applyDefaults(c)

	return nil
}

// Marshal serializes the configuration to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

func splitList(v string) []string {
	var out []string

	for _, p := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
		out = append(out, p)
	}

	return out
}
