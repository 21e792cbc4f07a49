package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"arachne/pkg/errors"
)

type Config struct {
	App           AppConfig
	Mining        MiningConfig
	Series        SeriesConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
	Metrics       MetricsConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"arachne"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// MiningConfig carries the default mining parameters used by the CLI and the
// scanner worker. Per-run overrides come from flags; the core itself never
// reads the environment.
type MiningConfig struct {
	WindowSize           int     `envconfig:"MINING_WINDOW_SIZE" default:"20"`
	MinSupport           float64 `envconfig:"MINING_MIN_SUPPORT" default:"0.05"`
	MinConfidence        float64 `envconfig:"MINING_MIN_CONFIDENCE" default:"0.6"`
	NoiseFilter          float64 `envconfig:"MINING_NOISE_FILTER" default:"0.01"`
	BootstrapSamples     int     `envconfig:"MINING_BOOTSTRAP_SAMPLES" default:"200"`
	SignificanceLevel    float64 `envconfig:"MINING_SIGNIFICANCE_LEVEL" default:"0.05"`
	CrossValidationFolds int     `envconfig:"MINING_CROSS_VALIDATION_FOLDS" default:"5"`
	MinClusterSize       int     `envconfig:"MINING_MIN_CLUSTER_SIZE" default:"3"`

	// FeatureWorkers bounds the feature-computation pool. 0 means GOMAXPROCS.
	FeatureWorkers int `envconfig:"MINING_FEATURE_WORKERS" default:"0"`
}

// SeriesConfig selects and parameterizes the series provider.
type SeriesConfig struct {
	Provider string   `envconfig:"SERIES_PROVIDER" default:"synthetic"`
	Symbols  []string `envconfig:"SERIES_SYMBOLS" default:"BTCUSDT"`
	Bars     int      `envconfig:"SERIES_BARS" default:"5000"`

	// CSV provider
	CSVDir string `envconfig:"SERIES_CSV_DIR" default:"./data"`

	// Synthetic provider
	BarInterval time.Duration `envconfig:"SERIES_BAR_INTERVAL" default:"1m"`
	Drift       float64       `envconfig:"SERIES_SYNTHETIC_DRIFT" default:"0.0002"`
	Volatility  float64       `envconfig:"SERIES_SYNTHETIC_VOLATILITY" default:"0.01"`
	StartPrice  float64       `envconfig:"SERIES_SYNTHETIC_START_PRICE" default:"100"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for all background workers
type WorkerConfig struct {
	PatternScannerInterval time.Duration `envconfig:"WORKER_PATTERN_SCANNER_INTERVAL" default:"15m"`
	PatternScannerEnabled  bool          `envconfig:"WORKER_PATTERN_SCANNER_ENABLED" default:"true"`
}

// MetricsConfig exposes Prometheus metrics in scan mode
type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// Validate checks ranges that envconfig cannot express. All violations are
// collected so a misconfigured deployment reports everything at once.
func (c *Config) Validate() error {
	multi := &errors.MultiError{}

	if c.Mining.WindowSize < 2 {
		multi.Add(errors.NewValidationError("MINING_WINDOW_SIZE", "must be at least 2", c.Mining.WindowSize))
	}
	if c.Mining.MinSupport <= 0 || c.Mining.MinSupport > 1 {
		multi.Add(errors.NewValidationError("MINING_MIN_SUPPORT", "must be in (0, 1]", c.Mining.MinSupport))
	}
	if c.Mining.MinConfidence <= 0 || c.Mining.MinConfidence > 1 {
		multi.Add(errors.NewValidationError("MINING_MIN_CONFIDENCE", "must be in (0, 1]", c.Mining.MinConfidence))
	}
	if c.Mining.NoiseFilter < 0 {
		multi.Add(errors.NewValidationError("MINING_NOISE_FILTER", "must be non-negative", c.Mining.NoiseFilter))
	}
	if c.Mining.BootstrapSamples < 1 {
		multi.Add(errors.NewValidationError("MINING_BOOTSTRAP_SAMPLES", "must be at least 1", c.Mining.BootstrapSamples))
	}
	if c.Mining.MinClusterSize < 1 {
		multi.Add(errors.NewValidationError("MINING_MIN_CLUSTER_SIZE", "must be at least 1", c.Mining.MinClusterSize))
	}

	if len(c.Series.Symbols) == 0 {
		multi.Add(errors.NewValidationError("SERIES_SYMBOLS", "at least one symbol required", c.Series.Symbols))
	}
	if c.Series.Bars < 1 {
		multi.Add(errors.NewValidationError("SERIES_BARS", "must be positive", c.Series.Bars))
	}
	if c.Series.BarInterval <= 0 {
		multi.Add(errors.NewValidationError("SERIES_BAR_INTERVAL", "must be positive", c.Series.BarInterval))
	}
	if c.Series.Volatility < 0 {
		multi.Add(errors.NewValidationError("SERIES_SYNTHETIC_VOLATILITY", "must be non-negative", c.Series.Volatility))
	}
	if c.Series.StartPrice <= 0 {
		multi.Add(errors.NewValidationError("SERIES_SYNTHETIC_START_PRICE", "must be positive", c.Series.StartPrice))
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		multi.Add(errors.NewValidationError("METRICS_ADDR", "required when metrics are enabled", c.Metrics.Addr))
	}

	return multi.ToError()
}
