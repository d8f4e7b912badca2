package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/pacerlabs/pacer/internal/runner"
)

// StartTransactionSpan starts a client span covering one transaction.
func StartTransactionSpan(ctx context.Context, tracer trace.Tracer, testName string) (context.Context, trace.Span) {
	spanName := "transaction"
	if testName != "" {
		spanName = "transaction " + testName
	}
	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	if testName != "" {
		span.SetAttributes(attribute.String("pacer.test_name", testName))
	}
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InjectHTTPHeaders injects W3C trace context into HTTP headers. A no-op when
// the context carries no span.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

// WrapAction decorates an action with one span per invocation. The span
// context flows into the action, so requests built from it carry trace
// headers. Errors pass through unchanged.
func WrapAction(tracer trace.Tracer, testName string, action runner.Action) runner.Action {
	return runner.ActionFunc(func(ctx context.Context) error {
		ctx, span := StartTransactionSpan(ctx, tracer, testName)
		err := action.Do(ctx)
		EndSpan(span, err)
		return err
	})
}
