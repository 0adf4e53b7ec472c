package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/vault/internal/errors"
)

// Operation status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	// StatusExpired marks a read rejected because its key version aged out.
	StatusExpired = "expired"
	// StatusRejected marks a read whose authentication tag did not verify.
	StatusRejected = "rejected"
)

// BusinessMetrics records vault operation counts and durations.
type BusinessMetrics interface {
	// RecordOperation records an operation with its status.
	// Domain examples: "records", "keys"
	// Operation examples: "record_store", "record_retrieve", "key_rotate"
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

// StatusFromError maps an operation result to a status label.
//
// Expired key versions and failed authentication are kept apart from generic
// errors so retention problems can be told from tampering on a dashboard.
func StatusFromError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case apperrors.Is(err, apperrors.ErrGone):
		return StatusExpired
	case apperrors.Is(err, apperrors.ErrIntegrity):
		return StatusRejected
	default:
		return StatusError
	}
}

// Observe records both the count and the duration of an operation that started at start.
func Observe(ctx context.Context, m BusinessMetrics, domain, operation string, start time.Time, err error) {
	status := StatusFromError(err)
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewBusinessMetrics creates BusinessMetrics on the given meter provider.
// Metric names are prefixed with namespace (e.g. "vault_operations_total").
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of vault operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of vault operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

// NoOpBusinessMetrics discards everything. Used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a NoOpBusinessMetrics.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}
