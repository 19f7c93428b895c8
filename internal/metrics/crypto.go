package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CryptoMetrics defines the interface for recording cryptographic operation
// metrics. Implementations track operation counts and durations so the
// security dashboard can plot encryption throughput and failure rates.
type CryptoMetrics interface {
	// RecordOperation records one cryptographic operation with its status.
	// Action examples: "encrypt", "decrypt", "key_generate"
	// EntityType examples: "workspace", "task", "file_content"
	// Status examples: "success", "error"
	RecordOperation(ctx context.Context, action, entityType, status string)

	// RecordDuration records the duration of a cryptographic operation.
	// Duration is recorded in seconds as a histogram for percentile calculations.
	RecordDuration(ctx context.Context, action, entityType string, duration time.Duration, status string)
}

// cryptoMetrics implements CryptoMetrics using OpenTelemetry metrics.
type cryptoMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewCryptoMetrics creates a CryptoMetrics implementation backed by the given
// meter provider. The namespace prefixes all metric names. Returns an error
// if the instruments cannot be created.
func NewCryptoMetrics(meterProvider metric.MeterProvider, namespace string) (CryptoMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_crypto_operations_total", namespace),
		metric.WithDescription("Total number of cryptographic operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_crypto_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of cryptographic operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &cryptoMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

// RecordOperation increments the operation counter with action, entity_type,
// and status labels.
func (c *cryptoMetrics) RecordOperation(ctx context.Context, action, entityType, status string) {
	c.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("entity_type", entityType),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with action,
// entity_type, and status labels.
func (c *cryptoMetrics) RecordDuration(
	ctx context.Context,
	action, entityType string,
	duration time.Duration,
	status string,
) {
	c.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("entity_type", entityType),
			attribute.String("status", status),
		),
	)
}

// NoOpCryptoMetrics is a no-op implementation of CryptoMetrics for when
// metrics are disabled.
type NoOpCryptoMetrics struct{}

// NewNoOpCryptoMetrics creates a no-op CryptoMetrics implementation.
func NewNoOpCryptoMetrics() CryptoMetrics {
	return &NoOpCryptoMetrics{}
}

// RecordOperation does nothing when metrics are disabled.
func (n *NoOpCryptoMetrics) RecordOperation(ctx context.Context, action, entityType, status string) {
	// No-op
}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpCryptoMetrics) RecordDuration(
	ctx context.Context,
	action, entityType string,
	duration time.Duration,
	status string,
) {
	// No-op
}
