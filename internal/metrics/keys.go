package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// KeyInfoSource exposes key ring metadata. Satisfied by the key manager.
type KeyInfoSource interface {
	Info() cryptoDomain.KeyInfo
}

// RegisterKeyMetrics registers gauges observed from source on every scrape:
// the current key version and the seconds left until the next scheduled rotation.
func RegisterKeyMetrics(meterProvider metric.MeterProvider, namespace string, source KeyInfoSource) error {
	meter := meterProvider.Meter(namespace)

	currentVersion, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_key_current_version", namespace),
		metric.WithDescription("Version of the key used for new records"),
	)
	if err != nil {
		return fmt.Errorf("failed to create key version gauge: %w", err)
	}

	untilRotation, err := meter.Float64ObservableGauge(
		fmt.Sprintf("%s_key_next_rotation_seconds", namespace),
		metric.WithDescription("Seconds until the next scheduled key rotation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rotation gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		info := source.Info()
		if info.CurrentVersion == 0 {
			return nil
		}
		o.ObserveInt64(currentVersion, int64(info.CurrentVersion))
		o.ObserveFloat64(untilRotation, time.Until(info.NextRotationAt).Seconds())
		return nil
	}, currentVersion, untilRotation)
	if err != nil {
		return fmt.Errorf("failed to register key metrics callback: %w", err)
	}

	return nil
}
