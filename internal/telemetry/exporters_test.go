package telemetry

import (
	"context"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// discardExporter accepts spans and metrics and drops them.
type discardExporter struct{}

func (discardExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (discardExporter) Temporality(sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

func (discardExporter) Aggregation(sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.AggregationDefault{}
}

func (discardExporter) Export(context.Context, *metricdata.ResourceMetrics) error { return nil }

func (discardExporter) ForceFlush(context.Context) error { return nil }

func (discardExporter) Shutdown(context.Context) error { return nil }

func newNoopTraceExporter() sdktrace.SpanExporter {
	return discardExporter{}
}

func newNoopMetricExporter() sdkmetric.Exporter {
	return discardExporter{}
}
