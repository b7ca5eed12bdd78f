package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"expenses/internal/log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: storage.backend is read from
// EXPENSES_STORAGE_BACKEND.
const EnvPrefix = "EXPENSES"

type Config struct {
	// Storage
	StorageBackend string
	SQLitePath     string
	StorageKey     string

	// Categories
	StrictCategories bool
	CategoriesFile   string

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP (optional, disabled when URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export (optional)
	SheetsSpreadsheetID   string
	SheetsSheetName       string
	SheetsCredentialsFile string
	SheetsCredentialsJSON string
}

// SetDefaults registers every key with its default so that environment
// overrides resolve through AutomaticEnv.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.sqlite_path", defaultSQLitePath())
	v.SetDefault("storage.key", "expenses")

	v.SetDefault("categories.strict", false)
	v.SetDefault("categories.file", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "expenses")
	v.SetDefault("amqp.queue", "expense_events")

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.sheet_name", "Expenses")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.credentials_json", "")
}

func defaultSQLitePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "expenses", "expenses.db")
	}
	return filepath.Join("data", "expenses.db")
}

// NewViper returns a viper instance with defaults, env overrides and, if
// found, a YAML config file. An explicit configFile must exist; otherwise
// config.yaml is looked up in the user config dir and the working directory.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "expenses"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// FromViper snapshots the resolved values of v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		StorageBackend: strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))),
		SQLitePath:     v.GetString("storage.sqlite_path"),
		StorageKey:     v.GetString("storage.key"),

		StrictCategories: v.GetBool("categories.strict"),
		CategoriesFile:   v.GetString("categories.file"),

		LogLevel:  v.GetString("logging.level"),
		LogFormat: strings.ToLower(v.GetString("logging.format")),

		AMQPURL:      v.GetString("amqp.url"),
		AMQPExchange: v.GetString("amqp.exchange"),
		AMQPQueue:    v.GetString("amqp.queue"),

		SheetsSpreadsheetID:   v.GetString("sheets.spreadsheet_id"),
		SheetsSheetName:       v.GetString("sheets.sheet_name"),
		SheetsCredentialsFile: v.GetString("sheets.credentials_file"),
		SheetsCredentialsJSON: v.GetString("sheets.credentials_json"),
	}
}

// LoadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads .env, the optional config file and the environment.
func Load(configFile string) (*Config, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, err
	}
	v, err := NewViper(configFile)
	if err != nil {
		return nil, err
	}
	return FromViper(v), nil
}

// SheetsEnabled reports whether a Google Sheets target is configured.
func (c *Config) SheetsEnabled() bool {
	return c.SheetsSpreadsheetID != ""
}

// Validate validates the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.StorageBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.StorageBackend, validBackends))
	}

	if c.StorageBackend == "sqlite" && strings.TrimSpace(c.SQLitePath) == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		errs = append(errs, "storage key cannot be empty")
	}

	if c.CategoriesFile != "" {
		if _, err := os.Stat(c.CategoriesFile); err != nil {
			errs = append(errs, fmt.Sprintf("categories file is not readable: %s", c.CategoriesFile))
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		if c.SheetsSheetName == "" {
			errs = append(errs, "sheet name is required when a spreadsheet ID is set")
		}
		if c.SheetsCredentialsFile != "" {
			if _, err := os.Stat(c.SheetsCredentialsFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google credentials file does not exist: %s", c.SheetsCredentialsFile))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
