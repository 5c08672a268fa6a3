package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the solrq configuration.
type Config struct {
	Solr    SolrConfig    `yaml:"solr"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json or console (default: determined by env)
}

// SolrConfig holds the Solr connection settings.
type SolrConfig struct {
	Host         string            `yaml:"host"`
	Port         int               `yaml:"port"`
	Core         string            `yaml:"core"`
	Path         string            `yaml:"path"`
	TLS          bool              `yaml:"tls"`
	Username     string            `yaml:"username"`
	Password     string            `yaml:"password"`
	Version      string            `yaml:"version"` // e.g. "8.11" (default: 3.2 semantics)
	GetMaxLength int               `yaml:"get_max_length"`
	BigInt       bool              `yaml:"bigint"`
	Compression  bool              `yaml:"compression"`
	TimeoutSec   int               `yaml:"timeout_sec"`
	IPVersion    int               `yaml:"ip_version"` // 0 (any), 4 or 6
	Headers      map[string]string `yaml:"headers"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Solr.Host == "" {
		c.Solr.Host = "127.0.0.1"
	}
	if c.Solr.Port == 0 {
		c.Solr.Port = 8983
	}
	if c.Solr.Path == "" {
		c.Solr.Path = "/solr"
	}
	if c.Solr.TimeoutSec <= 0 {
		c.Solr.TimeoutSec = 30
	}
}

var versionRegex = regexp.MustCompile(`^\d+(\.\d+){0,2}$`)

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Solr.Port <= 0 || c.Solr.Port > 65535 {
		return fmt.Errorf("solr.port must be between 1 and 65535, got %d", c.Solr.Port)
	}
	switch c.Solr.IPVersion {
	case 0, 4, 6:
		// ok
	default:
		return fmt.Errorf("solr.ip_version must be 4 or 6, got %d", c.Solr.IPVersion)
	}
	if c.Solr.Version != "" && !versionRegex.MatchString(c.Solr.Version) {
		return fmt.Errorf("solr.version must look like \"8.11\", got %q", c.Solr.Version)
	}
	if c.Solr.Password != "" && c.Solr.Username == "" {
		return fmt.Errorf("solr.username is required when solr.password is set")
	}
	if c.Solr.GetMaxLength < 0 {
		return fmt.Errorf("solr.get_max_length must not be negative, got %d", c.Solr.GetMaxLength)
	}
	switch c.Logging.Format {
	case "", "json", "console":
		// ok
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
