package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".ghpipe"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for ghpipe settings.
const envPrefix = "GHPIPE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// DefaultEnvFile is read when no env file is given. Missing is not an error.
const DefaultEnvFile = ".env"

// envBindings maps config keys to the well-known variables the pipeline
// reads. GHPIPE_-prefixed names work for every key through AutomaticEnv.
var envBindings = map[string]string{
	"github.token":            "GITHUB_TOKEN",
	"store.connection_string": "MONGODB_CONNECTION_STRING",
	"store.database":          "MONGODB_DATABASE",
	"archive.passphrase":      "GPG_PASSPHRASE",
}

// Options controls where configuration is read from.
type Options struct {
	// ConfigPath is an explicit YAML config file. Empty searches CWD and $HOME.
	ConfigPath string

	// EnvFile is a dotenv file. Empty reads DefaultEnvFile when present.
	EnvFile string
}

// Load builds the config. Precedence, highest first: process environment,
// env file, config file, defaults.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()
	for key, name := range envBindings {
		if err := v.BindEnv(key, prefixedEnv(key), name); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", name, err)
		}
	}

	if err := readConfigFile(v, opts.ConfigPath); err != nil {
		return nil, err
	}
	if err := applyEnvFile(v, opts.EnvFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// applyEnvFile copies well-known variables from a dotenv file into v unless
// the process environment already provides them.
func applyEnvFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env file: %w", err)
	}

	dotenv := viper.New()
	dotenv.SetConfigFile(path)
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file: %w", err)
	}

	for key, name := range envBindings {
		if inEnv(name) || inEnv(prefixedEnv(key)) {
			continue
		}
		if dotenv.IsSet(name) {
			v.Set(key, dotenv.GetString(name))
		}
	}
	return nil
}

// prefixedEnv returns the GHPIPE_ variable name for a config key.
func prefixedEnv(key string) string {
	return envPrefix + envKeySeparator + strings.ToUpper(strings.ReplaceAll(key, ".", envKeySeparator))
}

func inEnv(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir)

	v.SetDefault("github.token", "")
	v.SetDefault("github.base_url", "")
	v.SetDefault("github.per_page", DefaultPerPage)
	v.SetDefault("github.max_results", DefaultMaxResults)
	v.SetDefault("github.workflow_per_page", DefaultWorkflowPerPage)
	v.SetDefault("github.sort", "")
	v.SetDefault("github.order", DefaultOrder)
	v.SetDefault("github.created", "")
	v.SetDefault("github.query_template", "")
	v.SetDefault("github.requests_per_second", DefaultRequestsPerSecond)

	v.SetDefault("store.driver", DefaultDriver)
	v.SetDefault("store.connection_string", "")
	v.SetDefault("store.database", "")
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("store.timeout_seconds", DefaultTimeoutSeconds)

	v.SetDefault("archive.backend", DefaultBackend)
	v.SetDefault("archive.passphrase", "")
	v.SetDefault("archive.tar_binary", DefaultTarBinary)
	v.SetDefault("archive.gpg_binary", DefaultGPGBinary)
}
