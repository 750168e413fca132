package telemetry

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config controls OpenTelemetry tracing.
type Config struct {
	Enabled bool

	ServiceName    string
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector address, e.g. "localhost:4317".
	Endpoint string

	// Insecure disables TLS towards the collector.
	Insecure bool

	// SampleRate is the fraction of registrations traced, from 0.0 to 1.0.
	SampleRate float64
}

// DefaultConfig returns tracing disabled against a local collector.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "gridacct",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}

func (c Config) sampler() sdktrace.Sampler {
	switch {
	case c.SampleRate >= 1:
		return sdktrace.AlwaysSample()
	case c.SampleRate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SampleRate))
	}
}
