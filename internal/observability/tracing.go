// Package observability wires OTLP trace export into Genkit's
// TracerProvider.
//
// Genkit records a span per flow, generate call, and tool invocation.
// Setup registers a BatchSpanProcessor exporting those spans to an OTLP
// HTTP collector (a local otel-collector, a Datadog Agent with the OTLP
// receiver enabled, or a hosted endpoint). Tracing stays off until an
// endpoint is configured:
//
//	tracing:
//	  endpoint: "localhost:4318"
//	  environment: "dev"
//	  service_name: "todo"
//
// OTEL_EXPORTER_OTLP_ENDPOINT overrides the endpoint at runtime.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/koopa0/todo/internal/config"
)

// shutdownTimeout bounds the final span flush on exit.
const shutdownTimeout = 5 * time.Second

// noopShutdown is returned when tracing is disabled or unavailable, so
// callers can always defer the shutdown.
func noopShutdown(context.Context) error { return nil }

// Setup registers an OTLP exporter with Genkit's TracerProvider and
// returns a shutdown function that flushes pending spans.
//
// A missing endpoint disables tracing; an exporter construction failure
// degrades to disabled with a warning rather than failing startup.
func Setup(ctx context.Context, cfg config.TracingConfig) (shutdown func(context.Context) error, err error) {
	if !cfg.Enabled() {
		return noopShutdown, nil
	}

	// Genkit's TracerProvider reads the service identity from the
	// standard OTEL variables.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.APIKey != "" {
		// Hosted collectors authenticate per request and require TLS.
		opts = append(opts, otlptracehttp.WithHeaders(map[string]string{"x-api-key": cfg.APIKey}))
	} else {
		// Local collectors speak plain HTTP.
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		slog.Warn("failed to create trace exporter, tracing disabled", "error", err)
		return noopShutdown, nil
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	slog.Debug("tracing enabled",
		"endpoint", cfg.Endpoint,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := tracing.TracerProvider().Shutdown(ctx); err != nil {
			return fmt.Errorf("flushing traces: %w", err)
		}
		return nil
	}, nil
}
