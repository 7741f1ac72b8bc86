package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dermalytics/dermalytics-go/observe"
)

// Config is the full client configuration.
type Config struct {
	Backend struct {
		BaseURL        string   `yaml:"baseURL"`
		Token          string   `yaml:"token"`
		Timeout        Duration `yaml:"timeout"`
		PredictTimeout Duration `yaml:"predictTimeout"`
	} `yaml:"backend"`

	Cache struct {
		DefaultTTL          Duration `yaml:"defaultTTL"`
		CommunityInsightTTL Duration `yaml:"communityInsightTTL"`
		PreventiveCareTTL   Duration `yaml:"preventiveCareTTL"`
	} `yaml:"cache"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Polling struct {
		RetrainingInterval Duration `yaml:"retrainingInterval"`
	} `yaml:"polling"`

	Observe struct {
		LogLevel        string  `yaml:"logLevel"`
		TracingExporter string  `yaml:"tracingExporter"`
		MetricsExporter string  `yaml:"metricsExporter"`
		SamplePct       float64 `yaml:"samplePct"`
	} `yaml:"observe"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Backend.Timeout = Duration(45 * time.Second)
	cfg.Backend.PredictTimeout = Duration(60 * time.Second)
	cfg.Cache.DefaultTTL = Duration(5 * time.Minute)
	cfg.Cache.CommunityInsightTTL = Duration(30 * time.Minute)
	cfg.Cache.PreventiveCareTTL = Duration(24 * time.Hour)
	cfg.Polling.RetrainingInterval = Duration(15 * time.Second)
	cfg.Observe.LogLevel = "info"
	return cfg
}

// Load reads, env-expands and validates the YAML config at path.
// Unset durations fall back to the defaults from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, err := expandEnvStrict(string(data))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults restores default durations that an explicit zero or an
// omitted key wiped out.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = d.Backend.Timeout
	}
	if c.Backend.PredictTimeout <= 0 {
		c.Backend.PredictTimeout = d.Backend.PredictTimeout
	}
	if c.Cache.DefaultTTL <= 0 {
		c.Cache.DefaultTTL = d.Cache.DefaultTTL
	}
	if c.Cache.CommunityInsightTTL <= 0 {
		c.Cache.CommunityInsightTTL = d.Cache.CommunityInsightTTL
	}
	if c.Cache.PreventiveCareTTL <= 0 {
		c.Cache.PreventiveCareTTL = d.Cache.PreventiveCareTTL
	}
	if c.Polling.RetrainingInterval <= 0 {
		c.Polling.RetrainingInterval = d.Polling.RetrainingInterval
	}
	if c.Observe.LogLevel == "" {
		c.Observe.LogLevel = d.Observe.LogLevel
	}
}

// ObserveConfig maps the observe section onto the telemetry config.
// An empty exporter leaves that subsystem disabled.
func (c *Config) ObserveConfig(serviceName, version string) observe.Config {
	return observe.Config{
		ServiceName: serviceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.TracingExporter != "" && c.Observe.TracingExporter != "none",
			Exporter:  c.Observe.TracingExporter,
			SamplePct: c.Observe.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.MetricsExporter != "" && c.Observe.MetricsExporter != "none",
			Exporter: c.Observe.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.Observe.LogLevel,
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("config: backend.baseURL is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: backend.baseURL %q is not an absolute URL", c.Backend.BaseURL)
	}
	if c.Observe.SamplePct < 0 || c.Observe.SamplePct > 1 {
		return fmt.Errorf("config: observe.samplePct must be between 0.0 and 1.0, got %f", c.Observe.SamplePct)
	}
	return nil
}
