package config

import (
	"time"

	"github.com/vietddude/dispatcher/internal/infra/emitter"
	redisclient "github.com/vietddude/dispatcher/internal/infra/redis"
	"github.com/vietddude/dispatcher/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Dispatch DispatchConfig     `json:"dispatch"  yaml:"dispatch"`
	Service  ServiceConfig      `json:"service"   yaml:"service"`
	Output   OutputConfig       `json:"output"    yaml:"output"`
	Server   ServerConfig       `json:"server"    yaml:"server"`
	Logging  LoggingConfig      `json:"logging"   yaml:"logging"`
	Redis    redisclient.Config `json:"redis"     yaml:"redis"`
	Database postgres.Config    `json:"database"  yaml:"database"`
	NATS     emitter.Config     `json:"nats"      yaml:"nats"`

	// Flat keys kept for config.json compatibility; folded into Dispatch
	// by Load when set.
	PoolSize         int `json:"pool_size"         yaml:"pool_size"`
	RetryCount       int `json:"retry_count"       yaml:"retry_count"`
	FailureThreshold int `json:"failure_threshold" yaml:"failure_threshold"`
}

// DispatchConfig holds the executor settings.
type DispatchConfig struct {
	PoolSize         int           `json:"pool_size"         yaml:"pool_size"`
	RetryCount       int           `json:"retry_count"       yaml:"retry_count"`
	FailureThreshold int           `json:"failure_threshold" yaml:"failure_threshold"`
	BaseDelay        time.Duration `json:"base_delay"        yaml:"base_delay"`
}

// ServiceConfig holds settings for the external operation.
type ServiceConfig struct {
	Kind        string        `json:"kind"         yaml:"kind"` // "http", "grpc", "simulated"
	Endpoint    string        `json:"endpoint"     yaml:"endpoint"`
	Timeout     time.Duration `json:"timeout"      yaml:"timeout"`
	GRPCMethod  string        `json:"grpc_method"  yaml:"grpc_method"`
	FailureRate float64       `json:"failure_rate" yaml:"failure_rate"` // simulated only
}

// OutputConfig holds the result file settings.
type OutputConfig struct {
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds HTTP server settings for health and metrics.
type ServerConfig struct {
	Port int `json:"port" yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is available.
func Default() *AppConfig {
	return &AppConfig{
		Dispatch: DispatchConfig{
			PoolSize:         10,
			RetryCount:       3,
			FailureThreshold: 5,
			BaseDelay:        time.Second,
		},
		Service: ServiceConfig{
			Kind:    "simulated",
			Timeout: 30 * time.Second,
		},
		Output: OutputConfig{Path: "results.json"},
	}
}
