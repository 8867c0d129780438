package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/searchlab/component"
)

// TelemetryConfig selects the OTLP exporters. An empty Endpoint keeps the
// global no-op providers.
type TelemetryConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	Insecure       bool          `mapstructure:"insecure"`
	SampleRate     float64       `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `mapstructure:"metric_interval" validate:"gte=0"`
}

// ApplyDefaults fills zero values.
func (c *TelemetryConfig) ApplyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Enabled reports whether exporters should be installed.
func (c TelemetryConfig) Enabled() bool { return c.Endpoint != "" }

// Telemetry owns the tracer and meter providers as a component.
type Telemetry struct {
	cfg         TelemetryConfig
	service     string
	version     string
	environment string

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*Telemetry)(nil)

// NewTelemetry prepares exporters for the given service identity.
func NewTelemetry(cfg TelemetryConfig, service, version, environment string) *Telemetry {
	cfg.ApplyDefaults()
	return &Telemetry{cfg: cfg, service: service, version: version, environment: environment}
}

// Name implements component.Component.
func (t *Telemetry) Name() string { return "telemetry" }

// Start installs the exporters when an endpoint is configured.
func (t *Telemetry) Start(ctx context.Context) error {
	if !t.cfg.Enabled() {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	tp, err := InitTracer(ctx, &TracerConfig{
		ServiceName:    t.service,
		ServiceVersion: t.version,
		Environment:    t.environment,
		Endpoint:       t.cfg.Endpoint,
		Insecure:       t.cfg.Insecure,
		SampleRate:     t.cfg.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	mp, err := InitMeter(ctx, &MeterConfig{
		ServiceName:    t.service,
		ServiceVersion: t.version,
		Environment:    t.environment,
		Endpoint:       t.cfg.Endpoint,
		Insecure:       t.cfg.Insecure,
		Interval:       t.cfg.MetricInterval,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry: %w", err)
	}
	t.tp, t.mp = tp, mp
	return nil
}

// Stop flushes and shuts down the exporters.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
		t.tp = nil
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
		t.mp = nil
	}
	return errors.Join(errs...)
}

// Health implements component.Component.
func (t *Telemetry) Health(_ context.Context) component.Health {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	switch {
	case !t.cfg.Enabled():
		h.Message = "exporters disabled"
	case t.tp == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "exporters not started"
	default:
		h.Message = "exporting to " + t.cfg.Endpoint
	}
	return h
}
