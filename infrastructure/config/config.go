// Package config loads and validates the engine configuration from YAML
// with environment overrides, and reloads the dynamic portion on change.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pathfinder-backend/application/overlay"
)

// Config is the full engine configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Collaborators CollaboratorsConfig `yaml:"collaborators"`
	Dynamic       DynamicConfig       `yaml:"dynamic"`
	Logging       LoggingConfig       `yaml:"logging"`
	Tracing       TracingConfig       `yaml:"tracing"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
}

// CollaboratorsConfig holds the remote service endpoints
type CollaboratorsConfig struct {
	GraphServiceURL string        `yaml:"graphServiceUrl" validate:"required,url"`
	RoadRouterURL   string        `yaml:"roadRouterUrl" validate:"required,url"`
	IntelligenceURL string        `yaml:"intelligenceUrl" validate:"required,url"`
	GraphTimeout    time.Duration `yaml:"graphTimeout"`
	RouterTimeout   time.Duration `yaml:"routerTimeout"`
	IntelTimeout    time.Duration `yaml:"intelTimeout"`
}

// DynamicConfig is the runtime-changeable portion; the watcher reloads it
// without a restart
type DynamicConfig struct {
	DensityQuiescenceMs int             `yaml:"densityQuiescenceMs" validate:"min=0,max=10000"`
	InitialDensity      int             `yaml:"initialDensity" validate:"min=1,max=10"`
	GestureRatePerSec   float64         `yaml:"gestureRatePerSec" validate:"min=0"`
	GestureBurst        int             `yaml:"gestureBurst" validate:"min=0"`
	Palette             overlay.Palette `yaml:"palette"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// TracingConfig holds OTLP exporter settings
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
}

// Default returns the configuration used when no file or override supplies
// a value
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Collaborators: CollaboratorsConfig{
			GraphServiceURL: "http://localhost:8000",
			RoadRouterURL:   "https://router.project-osrm.org",
			IntelligenceURL: "http://localhost:8001",
			GraphTimeout:    15 * time.Second,
			RouterTimeout:   10 * time.Second,
			IntelTimeout:    30 * time.Second,
		},
		Dynamic: DynamicConfig{
			DensityQuiescenceMs: 500,
			InitialDensity:      1,
			GestureRatePerSec:   20,
			GestureBurst:        40,
			Palette:             overlay.DefaultPalette(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			ServiceName: "pathfinder-backend",
		},
	}
}

// Load reads the configuration file (when path is non-empty), applies
// environment overrides and validates the result
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration's structural constraints
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Quiescence returns the density debounce window as a duration
func (d DynamicConfig) Quiescence() time.Duration {
	return time.Duration(d.DensityQuiescenceMs) * time.Millisecond
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PATHFINDER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PATHFINDER_GRAPH_SERVICE_URL"); v != "" {
		cfg.Collaborators.GraphServiceURL = v
	}
	if v := os.Getenv("PATHFINDER_ROAD_ROUTER_URL"); v != "" {
		cfg.Collaborators.RoadRouterURL = v
	}
	if v := os.Getenv("PATHFINDER_INTELLIGENCE_URL"); v != "" {
		cfg.Collaborators.IntelligenceURL = v
	}
	if v := os.Getenv("PATHFINDER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PATHFINDER_TRACING_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
		cfg.Tracing.Enabled = true
	}
}
