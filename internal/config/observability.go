package config

import (
	"encoding/json"
	"fmt"
)

// TracingConfig holds OTLP trace export configuration.
//
// Tracing is disabled until an endpoint is configured. See
// internal/observability for the exporter setup.
type TracingConfig struct {
	// Endpoint is the OTLP HTTP collector endpoint, host:port
	// (e.g. "localhost:4318"). Empty disables tracing.
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// APIKey authenticates against hosted collectors (optional)
	APIKey string `mapstructure:"api_key" json:"api_key" sensitive:"true"`
	// Environment is the deployment environment tag (default: dev)
	Environment string `mapstructure:"environment" json:"environment"`
	// ServiceName is the service name on exported spans (default: todo)
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}

// Enabled reports whether trace export is configured.
func (t TracingConfig) Enabled() bool {
	return t.Endpoint != ""
}

// MarshalJSON masks the API key so the config can be logged safely.
func (t TracingConfig) MarshalJSON() ([]byte, error) {
	type alias TracingConfig
	a := alias(t)
	a.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal tracing config: %w", err)
	}
	return data, nil
}
