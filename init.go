package main

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"

	"github.com/marulatech/shipping-bridge/internal/config"
	"github.com/marulatech/shipping-bridge/internal/telemetry"
	"github.com/marulatech/shipping-bridge/pkg/carrier"
	"github.com/marulatech/shipping-bridge/pkg/carrier/mercurymes"
	"github.com/marulatech/shipping-bridge/pkg/carrier/mock"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
}

func initCarrierRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *carrier.Registry {
	registry := carrier.NewRegistry()

	if cfg.MercuryEnabled {
		mes := mercurymes.New(mercurymes.Config{
			Email:                  cfg.MercuryEmail,
			PrivateKey:             cfg.MercuryPrivateKey,
			BaseURL:                cfg.MercuryBaseURL,
			DomesticServiceID:      cfg.MercuryDomesticService,
			InternationalServiceID: cfg.MercuryInternationalService,
			Insurance:              cfg.MercuryInsurance,
			UseMock:                cfg.MercuryUseMock,
		}, logger, tracer)
		registry.Register(mes)
	}

	if cfg.MockCarrierEnabled {
		registry.Register(mock.New("mock"))
	}

	return registry
}
