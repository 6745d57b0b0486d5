package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Mercury MES
	MercuryEmail                string `envconfig:"MERCURY_MES_EMAIL"`
	MercuryPrivateKey           string `envconfig:"MERCURY_MES_PRIVATE_KEY"`
	MercuryBaseURL              string `envconfig:"MERCURY_MES_BASE_URL" default:"http://116.202.29.37/quotation1/app"`
	MercuryDomesticService      int    `envconfig:"MERCURY_MES_DOMESTIC_SERVICE" default:"1"`
	MercuryInternationalService int    `envconfig:"MERCURY_MES_INTERNATIONAL_SERVICE" default:"4"`
	MercuryInsurance            bool   `envconfig:"MERCURY_MES_INSURANCE" default:"false"`
	MercuryEnabled              bool   `envconfig:"MERCURY_MES_ENABLED" default:"true"`
	MercuryUseMock              bool   `envconfig:"MERCURY_MES_USE_MOCK" default:"false"`

	// Mock carrier for local development
	MockCarrierEnabled bool `envconfig:"MOCK_CARRIER_ENABLED" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"shipping-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
// Credentials are deliberately excluded.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("mercury_mes.enabled", c.MercuryEnabled),
		attribute.Bool("mercury_mes.insurance", c.MercuryInsurance),
		attribute.Int("mercury_mes.domestic_service", c.MercuryDomesticService),
		attribute.Int("mercury_mes.international_service", c.MercuryInternationalService),
	}
}
