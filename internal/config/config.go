// Package config loads ghpipe settings from defaults, an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
)

// Store drivers.
const (
	DriverMongoDB = "mongodb"
	DriverSQLite  = "sqlite"
)

// Archive backends.
const (
	BackendNative = "native"
	BackendExec   = "exec"
)

// Defaults.
const (
	DefaultDataDir           = ".data"
	DefaultPerPage           = 5
	DefaultMaxResults        = 1000
	DefaultWorkflowPerPage   = 100
	DefaultOrder             = "asc"
	DefaultRequestsPerSecond = 0.5
	DefaultDriver            = DriverMongoDB
	DefaultTimeoutSeconds    = 30
	DefaultBackend           = BackendNative
	DefaultTarBinary         = "tar"
	DefaultGPGBinary         = "gpg"
	maxPerPage               = 100
)

// Sentinel errors for config validation.
var (
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the top-level configuration struct for ghpipe.
// Field tags use mapstructure for viper unmarshalling and toml for display.
type Config struct {
	DataDir string        `mapstructure:"data_dir" toml:"data_dir"`
	GitHub  GitHubConfig  `mapstructure:"github"   toml:"github"`
	Store   StoreConfig   `mapstructure:"store"    toml:"store"`
	Archive ArchiveConfig `mapstructure:"archive"  toml:"archive"`
}

// GitHubConfig holds API access and pagination settings.
type GitHubConfig struct {
	Token             string  `mapstructure:"token"               toml:"token"`
	BaseURL           string  `mapstructure:"base_url"            toml:"base_url"`
	PerPage           int     `mapstructure:"per_page"            toml:"per_page"`
	MaxResults        int     `mapstructure:"max_results"         toml:"max_results"`
	WorkflowPerPage   int     `mapstructure:"workflow_per_page"   toml:"workflow_per_page"`
	Sort              string  `mapstructure:"sort"                toml:"sort"`
	Order             string  `mapstructure:"order"               toml:"order"`
	Created           string  `mapstructure:"created"             toml:"created"`
	QueryTemplate     string  `mapstructure:"query_template"      toml:"query_template"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Driver           string `mapstructure:"driver"            toml:"driver"`
	ConnectionString string `mapstructure:"connection_string" toml:"connection_string"`
	Database         string `mapstructure:"database"          toml:"database"`
	SQLitePath       string `mapstructure:"sqlite_path"       toml:"sqlite_path"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"   toml:"timeout_seconds"`
}

// ArchiveConfig selects the archive backend and holds the passphrase.
type ArchiveConfig struct {
	Backend    string `mapstructure:"backend"    toml:"backend"`
	Passphrase string `mapstructure:"passphrase" toml:"passphrase"`
	TarBinary  string `mapstructure:"tar_binary" toml:"tar_binary"`
	GPGBinary  string `mapstructure:"gpg_binary" toml:"gpg_binary"`
}

// Validate checks the config for invalid values.
// Secrets are not required here; the component that needs one fails without it.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	if err := c.GitHub.validate(); err != nil {
		return err
	}
	if err := c.Store.validate(); err != nil {
		return err
	}
	return c.Archive.validate()
}

func (g GitHubConfig) validate() error {
	if g.PerPage < 1 || g.PerPage > maxPerPage {
		return fmt.Errorf("%w: github.per_page must be 1..%d, got %d", ErrInvalidConfig, maxPerPage, g.PerPage)
	}
	if g.WorkflowPerPage < 1 || g.WorkflowPerPage > maxPerPage {
		return fmt.Errorf("%w: github.workflow_per_page must be 1..%d, got %d",
			ErrInvalidConfig, maxPerPage, g.WorkflowPerPage)
	}
	if g.MaxResults < 0 {
		return fmt.Errorf("%w: github.max_results is negative", ErrInvalidConfig)
	}
	if g.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: github.requests_per_second is negative", ErrInvalidConfig)
	}
	return nil
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case DriverMongoDB, DriverSQLite:
	default:
		return fmt.Errorf("%w: store.driver must be %s or %s, got %q",
			ErrInvalidConfig, DriverMongoDB, DriverSQLite, s.Driver)
	}
	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: store.timeout_seconds is negative", ErrInvalidConfig)
	}
	return nil
}

func (a ArchiveConfig) validate() error {
	switch a.Backend {
	case BackendNative, BackendExec:
		return nil
	default:
		return fmt.Errorf("%w: archive.backend must be %s or %s, got %q",
			ErrInvalidConfig, BackendNative, BackendExec, a.Backend)
	}
}
