package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/chameleon-db/komodo/pkg/engine"
)

// FileName is the per-project configuration file komodo looks for.
const FileName = ".komodo.yml"

// Config is the on-disk configuration for the komodo CLI.
type Config struct {
	Version  string         `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Builder  BuilderConfig  `yaml:"builder"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

// BuilderConfig holds statement-builder settings.
type BuilderConfig struct {
	ParameterLimit int  `yaml:"parameter_limit"`
	GenerateIDs    bool `yaml:"generate_ids"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	connector := engine.DefaultConfig()
	builder := engine.DefaultBuilderOptions()
	return &Config{
		Version: engine.Version,
		Database: DatabaseConfig{
			Host:     connector.Host,
			Port:     connector.Port,
			Database: connector.Database,
			User:     connector.User,
			Password: connector.Password,
			MaxConns: connector.MaxConns,
			MinConns: connector.MinConns,
		},
		Builder: BuilderConfig{
			ParameterLimit: builder.ParameterLimit,
			GenerateIDs:    builder.GenerateIDs,
		},
	}
}

// ConnectorConfig converts the database section into connector settings,
// filling gaps from defaults.
func (c *Config) ConnectorConfig() engine.ConnectorConfig {
	out := engine.DefaultConfig()
	if c.Database.Host != "" {
		out.Host = c.Database.Host
	}
	if c.Database.Port != 0 {
		out.Port = c.Database.Port
	}
	if c.Database.Database != "" {
		out.Database = c.Database.Database
	}
	if c.Database.User != "" {
		out.User = c.Database.User
	}
	if c.Database.Password != "" {
		out.Password = c.Database.Password
	}
	if c.Database.MaxConns != 0 {
		out.MaxConns = c.Database.MaxConns
	}
	if c.Database.MinConns != 0 {
		out.MinConns = c.Database.MinConns
	}
	return out
}

// BuilderOptions converts the builder section into builder options.
func (c *Config) BuilderOptions() engine.BuilderOptions {
	opts := engine.DefaultBuilderOptions()
	if c.Builder.ParameterLimit > 0 {
		opts.ParameterLimit = c.Builder.ParameterLimit
	}
	opts.GenerateIDs = c.Builder.GenerateIDs
	return opts
}

// Loader reads komodo configuration from a working directory.
type Loader struct {
	workDir  string
	filePath string
}

// NewLoader creates a loader rooted at workDir.
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir:  workDir,
		filePath: filepath.Join(workDir, FileName),
	}
}

// Load reads and parses the configuration file.
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", l.filePath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", l.filePath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.filePath, err)
	}

	return &cfg, nil
}

// LoadOrDefault reads the configuration file, falling back to defaults and
// a DATABASE_URL override when no file exists.
func (l *Loader) LoadOrDefault() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		cfg = Default()
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		connector, err := engine.ParseConnectionString(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		cfg.Database.Host = connector.Host
		cfg.Database.Port = connector.Port
		cfg.Database.Database = connector.Database
		cfg.Database.User = connector.User
		cfg.Database.Password = connector.Password
	}

	return cfg, nil
}

// Write persists the configuration to the loader's file path.
func (l *Loader) Write(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(l.filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", l.filePath, err)
	}
	return nil
}
