package lingo

import (
	"context"

	"github.com/pitabwire/util"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/pitabwire/lingo"

// wireMissingKeyTelemetry adds the binding's own observer on the missing-key
// stream: a debug log line and a counter on the global meter provider.
// Consumer subscriptions are unaffected; every native notification still
// yields exactly one published report.
func (b *Binding) wireMissingKeyTelemetry(ctx context.Context) {
	counter, err := otel.GetMeterProvider().Meter(meterName).Int64Counter(
		"lingo.translation.missing_keys",
		metric.WithDescription("Number of translation lookups the engine reported missing."),
	)
	if err != nil {
		util.Log(ctx).WithError(err).Warn("could not create missing key counter")
	} else {
		b.missingCounter = counter
	}

	b.missingKey.Subscribe(func(r MissingKeyReport) {
		util.Log(ctx).
			WithField("key", r.Key).
			WithField("namespace", r.Namespace).
			Debug("translation key missing")

		if b.missingCounter != nil {
			b.missingCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("namespace", r.Namespace),
			))
		}
	})
}
