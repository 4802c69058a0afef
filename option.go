package hourly

import (
	"log/slog"

	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/dao"
	"github.com/viant/hourly/service/event"
	"github.com/viant/hourly/service/export"
	"github.com/viant/hourly/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service
type Option func(s *Service)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDemandDAO sets the demand store
func WithDemandDAO(dao dao.Service[int, model.Demand]) Option {
	return func(s *Service) {
		s.demands = dao
	}
}

// WithDeveloperDAO sets the developer store
func WithDeveloperDAO(dao dao.Service[int, model.Developer]) Option {
	return func(s *Service) {
		s.developers = dao
	}
}

// WithExportService sets the export service
func WithExportService(service *export.Service) Option {
	return func(s *Service) {
		s.exporter = service
	}
}

// WithEventPublisher publishes a Summary event after every pass, rejection and reset.
// The publisher queue must be drained, otherwise passes block once it is full.
func WithEventPublisher(publisher *event.Publisher[model.Summary]) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter, or
// outputFile when not empty. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
