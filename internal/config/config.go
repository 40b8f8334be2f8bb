package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL    = "https://api.librus.pl/3.0/"
	DefaultTokenURL  = "https://api.librus.pl/OAuth/TokenJST"
	DefaultTokenPath = "_token.json"
	DefaultTimeout   = 1000 * time.Second
)

type Config struct {
	APIURL        string        `yaml:"api_url"`
	TokenURL      string        `yaml:"token_url"`
	TokenPath     string        `yaml:"token_path"`
	Timeout       time.Duration `yaml:"timeout"`
	ParallelFetch bool          `yaml:"parallel_fetch"`
	SQLitePath    string        `yaml:"sqlite_path"`
	CSVOutputPath string        `yaml:"csv_output_path"`
	Logging       LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SnapshotEnabled reports whether the loaded tables should be written to sqlite.
func (c Config) SnapshotEnabled() bool {
	return c.SQLitePath != ""
}

func Default() Config {
	return Config{
		APIURL:    DefaultAPIURL,
		TokenURL:  DefaultTokenURL,
		TokenPath: DefaultTokenPath,
		Timeout:   DefaultTimeout,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func LoadFromEnv() (Config, error) {
	cfg := Default()

	if path := os.Getenv("LIBRUS_CONFIG"); path != "" {
		fileCfg, err := LoadFile(path, cfg)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	if v := os.Getenv("LIBRUS_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("LIBRUS_TOKEN_URL"); v != "" {
		cfg.TokenURL = v
	}
	if v := os.Getenv("LIBRUS_TOKEN_PATH"); v != "" {
		cfg.TokenPath = v
	}
	if v := os.Getenv("LIBRUS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid LIBRUS_TIMEOUT: %s", v)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("LIBRUS_PARALLEL_FETCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LIBRUS_PARALLEL_FETCH: %s", v)
		}
		cfg.ParallelFetch = b
	}
	if v := os.Getenv("LIBRUS_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("LIBRUS_CSV_OUTPUT_PATH"); v != "" {
		cfg.CSVOutputPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes a yaml config on top of base. Keys missing from the file keep their base value.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url must not be empty")
	}
	if c.TokenURL == "" {
		return fmt.Errorf("token url must not be empty")
	}
	if c.TokenPath == "" {
		return fmt.Errorf("token path must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: want console or json", c.Logging.Format)
	}
	return nil
}
