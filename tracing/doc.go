// Package tracing wraps OpenTelemetry so that allocation passes and HTTP
// requests can be traced without the callers importing the SDK directly.
// Until Init or InitWithExporter is called spans are no-ops.
package tracing
