// Package observe provides the telemetry primitives used across sessionkit:
// a minimal structured logging interface with credential redaction, and
// OpenTelemetry metrics for session transitions and refresh cycles.
//
// The package never installs global providers. The embedding application owns
// its telemetry pipeline and hands sessionkit a metric.Meter and a Logger;
// both default to no-ops when absent.
package observe
