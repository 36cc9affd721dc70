// Package config loads the platform configuration from YAML and applies
// environment variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the condor platform.
type Config struct {
	Broker  Broker        `yaml:"broker"`
	Trading TradingConfig `yaml:"trading"`
	Storage Storage       `yaml:"storage"`
	Alpaca  Alpaca        `yaml:"alpaca"`
	Logging Logging       `yaml:"logging"`
}

// Broker identifies the broker gateway endpoint and the API client slot.
type Broker struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	ClientID int    `yaml:"client_id"`
}

// Duration wraps time.Duration so YAML values like "500ms" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// WatchlistEntry names one underlying to track.
type WatchlistEntry struct {
	Code     string `yaml:"code"`
	Kind     string `yaml:"kind"`
	Exchange string `yaml:"exchange"`
}

// TradingConfig defines market-data and execution parameters.
type TradingConfig struct {
	Currency        string           `yaml:"currency"`
	Benchmark       string           `yaml:"benchmark"`
	HistoricalYears int              `yaml:"historical_years"`
	BatchLimit      int              `yaml:"batch_limit"`
	BatchPace       Duration         `yaml:"batch_pace"`
	StrikeWindow    float64          `yaml:"strike_window"`
	Watchlist       []WatchlistEntry `yaml:"watchlist"`
	PaperMode       bool             `yaml:"paper_mode"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies environment variable overrides, and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Broker.Host == "" {
		cfg.Broker.Host = "127.0.0.1"
	}
	if cfg.Broker.Port == 0 {
		cfg.Broker.Port = 7497
	}
	if cfg.Trading.Currency == "" {
		cfg.Trading.Currency = "USD"
	}
	if cfg.Trading.Benchmark == "" {
		cfg.Trading.Benchmark = "SPY"
	}
	if cfg.Trading.HistoricalYears == 0 {
		cfg.Trading.HistoricalYears = 1
	}
	if cfg.Trading.BatchLimit == 0 {
		cfg.Trading.BatchLimit = 50
	}
	if cfg.Trading.BatchPace == 0 {
		cfg.Trading.BatchPace = Duration(time.Second)
	}
	if cfg.Trading.StrikeWindow == 0 {
		cfg.Trading.StrikeWindow = 0.10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CONDOR_BROKER_HOST"); v != "" {
		cfg.Broker.Host = v
	}
	if v := os.Getenv("CONDOR_BROKER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Broker.Port = port
		}
	}
	if v := os.Getenv("CONDOR_CLIENT_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Broker.ClientID = id
		}
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars (highest priority, the SDK's canonical names).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
