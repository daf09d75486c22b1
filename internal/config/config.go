// Package config loads and persists pairplan configuration from
// .pairplan/config.json under the plan root.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Dir is the dot-directory pairplan keeps its state in.
const Dir = ".pairplan"

// Config represents the complete pairplan configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	PlanRoot string `json:"planRoot" mapstructure:"planRoot"`

	Database   DatabaseConfig   `json:"database" mapstructure:"database"`
	Allocation AllocationConfig `json:"allocation" mapstructure:"allocation"`
	Export     ExportConfig     `json:"export" mapstructure:"export"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// DatabaseConfig contains SQLite database configuration
type DatabaseConfig struct {
	Filename      string `json:"filename" mapstructure:"filename"`
	BusyTimeoutMs int    `json:"busyTimeoutMs" mapstructure:"busyTimeoutMs"`
}

// AllocationConfig contains pair-allocation configuration
type AllocationConfig struct {
	// BinderSize is the pairs-per-binder group size applied to new cables.
	BinderSize int `json:"binderSize" mapstructure:"binderSize"`
	// WarnOverCapacity surfaces a warning when assigned pairs exceed capacity.
	WarnOverCapacity bool `json:"warnOverCapacity" mapstructure:"warnOverCapacity"`
}

// ExportConfig contains snapshot export configuration
type ExportConfig struct {
	DefaultOutput string `json:"defaultOutput" mapstructure:"defaultOutput"`
	Compress      bool   `json:"compress" mapstructure:"compress"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		PlanRoot: ".",
		Database: DatabaseConfig{
			Filename:      "pairplan.db",
			BusyTimeoutMs: 5000,
		},
		Allocation: AllocationConfig{
			BinderSize:       25,
			WarnOverCapacity: true,
		},
		Export: ExportConfig{
			DefaultOutput: "pairplan-export.yaml",
			Compress:      false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load loads configuration from <planRoot>/.pairplan/config.json.
// A missing file yields the defaults. PAIRPLAN_* environment variables
// override file values (PAIRPLAN_LOGGING_LEVEL, etc).
func Load(planRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("planRoot", ".")
	v.SetDefault("database.filename", "pairplan.db")
	v.SetDefault("database.busyTimeoutMs", 5000)
	v.SetDefault("allocation.binderSize", 25)
	v.SetDefault("allocation.warnOverCapacity", true)
	v.SetDefault("export.defaultOutput", "pairplan-export.yaml")
	v.SetDefault("export.compress", false)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(planRoot, Dir))
	v.SetEnvPrefix("PAIRPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <planRoot>/.pairplan/config.json
func (c *Config) Save(planRoot string) error {
	dir := filepath.Join(planRoot, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", Dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Allocation.BinderSize <= 0 {
		return fmt.Errorf("allocation.binderSize must be positive, got %d", c.Allocation.BinderSize)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database.filename must not be empty")
	}
	switch c.Logging.Format {
	case "json", "human":
	default:
		return fmt.Errorf("logging.format must be json or human, got %q", c.Logging.Format)
	}
	return nil
}
