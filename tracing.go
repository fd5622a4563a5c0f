package workerpool

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName   = "github.com/azargarov/ppool"
	taskSpanName = "workerpool.task"
	attrPool     = attribute.Key("workerpool.pool")
	attrPriority = attribute.Key("workerpool.priority")
	attrWorker   = attribute.Key("workerpool.worker")
	attrTaskName = attribute.Key("workerpool.task.name")
	attrAttempts = attribute.Key("workerpool.task.attempts")
)

// defaultTracer resolves through the global provider, which is a no-op
// until the application installs one.
func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func (p *Pool) startTaskSpan(ctx context.Context, w *worker, t *task) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attrPool.String(p.name),
		attrPriority.Int(int(t.priority)),
		attrWorker.Int(w.index),
	}
	if t.name != "" {
		attrs = append(attrs, attrTaskName.String(t.name))
	}
	return p.tracer.Start(ctx, taskSpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

func endTaskSpan(span trace.Span, attempts int, err error) {
	span.SetAttributes(attrAttempts.Int(attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
