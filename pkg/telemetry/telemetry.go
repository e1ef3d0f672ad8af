// pkg/telemetry/telemetry.go
package telemetry

import (
	"context"
	"os"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/frkngnc/commitor/pkg/xdg"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/frkngnc/commitor"

// EnvToggle turns span export on when set to "1" or "true".
const EnvToggle = "COMMITOR_TELEMETRY"

var shutdown = func(context.Context) error { return nil }

// Init configures OpenTelemetry; call this early in main().
// With telemetry off a noop provider is installed.
func Init(service string) error {
	if !IsEnabled() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return nil
	}

	path := xdg.XDGStatePath(xdg.AppName, "telemetry.jsonl")
	if err := xdg.EnsureDir(path); err != nil {
		return cerr.Wrap(err, "failed to create telemetry directory")
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, xdg.FilePermOwnerReadWrite)
	if err != nil {
		return cerr.Wrap(err, "failed to open telemetry file")
	}

	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		_ = file.Close()
		return cerr.Wrap(err, "failed to create file exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(
			sdkresource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("service.name", service),
				attribute.String("host.name", hostname()),
				attribute.String("commitor.install_id", AnonTelemetryID()),
			),
		),
	)

	otel.SetTracerProvider(tp)
	shutdown = func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		_ = file.Close()
		return err
	}
	return nil
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	return shutdown(ctx)
}

// Start a telemetry span with optional attributes.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// Meter returns the package meter. Without an SDK meter provider it is a noop.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// IsEnabled reports whether span export was requested.
func IsEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvToggle))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}

// AnonTelemetryID returns a stable random installation ID, creating it on first use.
func AnonTelemetryID() string {
	path := xdg.XDGStatePath(xdg.AppName, "telemetry_id")

	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data))
	}

	id := "anon-" + uuid.New().String()
	_ = xdg.EnsureDir(path)
	_ = os.WriteFile(path, []byte(id), xdg.FilePermOwnerReadWrite)

	return id
}
