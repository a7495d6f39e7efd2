package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InstallSDK installs an in-process SDK TracerProvider as the global
// otel.Tracer provider with the always-sample policy. No
// exporter is registered by default: this engine has no OTLP collector
// configured out of the box (network transport is an explicit non-goal),
// but the provider still records span timing/attributes for anything that
// wires in an exporter later.
func InstallSDK() (shutdown func(context.Context) error) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
