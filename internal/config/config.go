package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds the process-wide configuration, loaded once at startup and
// passed into each component's constructor.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type APIConfig struct {
	Key     string `mapstructure:"key"`
	BaseURL string `mapstructure:"base_url"`
	Auth    string `mapstructure:"auth"`
	Org     string `mapstructure:"org"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	setupViperConfig(v, configFile)
	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := setupLogging(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		// .env file not found, that's okay - continue with other sources
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

// setupViperConfig configures viper with file paths and defaults
func setupViperConfig(v *viper.Viper, configFile string) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/rbac-migrate")

	if home := os.Getenv("HOME"); len(home) > 0 {
		v.AddConfigPath(home + "/.config/rbac-migrate")
	}

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	// Set default values
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.dir", "Results")

	v.SetEnvPrefix("RBAC_MIGRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
}

// bindEnvironmentVariables binds all environment variables to viper.
// The bare names match the .env contract used by earlier tooling.
func bindEnvironmentVariables(v *viper.Viper) {
	v.BindEnv("api.key", "RBAC_MIGRATE_API_KEY", "API_KEY")
	v.BindEnv("api.base_url", "RBAC_MIGRATE_BASE_URL", "BASE_URL")
	v.BindEnv("api.auth", "RBAC_MIGRATE_AUTH", "AUTH")
	v.BindEnv("api.org", "RBAC_MIGRATE_ORG", "ORG")

	v.BindEnv("logging.level", "RBAC_MIGRATE_LOGGING_LEVEL")
	v.BindEnv("logging.format", "RBAC_MIGRATE_LOGGING_FORMAT")
	v.BindEnv("logging.dir", "RBAC_MIGRATE_LOG_DIR", "LOG_DIR")
}

// readAndUnmarshalConfig reads the configuration file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// Validate checks that every required key is present. Missing keys abort
// startup.
func (c *Config) Validate() error {
	var missing []string

	if len(c.API.Key) == 0 {
		missing = append(missing, "API_KEY")
	}
	if len(c.API.BaseURL) == 0 {
		missing = append(missing, "BASE_URL")
	}
	if len(c.API.Auth) == 0 {
		missing = append(missing, "AUTH")
	}
	if len(c.API.Org) == 0 {
		missing = append(missing, "ORG")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Headers returns the standard headers for every API request.
func (c *Config) Headers() map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": c.API.Auth,
		"API-Key":       c.API.Key,
	}
}

// setupLogging configures the logging system based on the config
func setupLogging(config *Config) error {
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	if len(config.Logging.Dir) > 0 {
		hook, err := NewRunLogHook(config.Logging.Dir)
		if err != nil {
			return fmt.Errorf("error setting up run log: %w", err)
		}
		logrus.AddHook(hook)
	}

	return nil
}
