package native

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/renga/logging"
)

var (
	foreignCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "renga_foreign_calls_total",
		Help: "Late-bound calls issued against the object model by kind and outcome",
	}, []string{"kind", "outcome"})

	foreignCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "renga_foreign_call_duration_seconds",
		Help:    "Latency of late-bound calls against the object model",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"kind"})

	liveRuntimeGuards = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "renga_runtime_guards_live",
		Help: "Runtime guards currently holding the automation subsystem",
	})
)

var tracer trace.Tracer = otel.Tracer("github.com/hupe1980/renga/native")

func callOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMemberNotFound):
		return "member_not_found"
	case errors.Is(err, ErrConversion):
		return "conversion"
	default:
		return "error"
	}
}

// observeCall opens a span for one foreign call and returns the function
// that closes it and records metrics.
func observeCall(kind CallKind, member string, argc int) func(error) {
	start := time.Now()
	_, span := tracer.Start(context.Background(), "native."+kind.String(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("renga.member", member),
			attribute.Int("renga.args", argc),
		),
	)
	return func(err error) {
		dur := time.Since(start)
		foreignCallsTotal.WithLabelValues(kind.String(), callOutcome(err)).Inc()
		foreignCallDuration.WithLabelValues(kind.String()).Observe(dur.Seconds())
		logging.ForeignCall(logger(), kind.String(), member, dur, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
