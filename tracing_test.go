package workerpool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	wp "github.com/azargarov/ppool"
)

func TestTaskSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	p, err := wp.NewPoolFromOptions(wp.Options{Workers: 1, Tracer: tp.Tracer("test")})
	require.NoError(t, err)
	defer p.Stop()

	p.Pause()
	_, err = wp.Submit(p, func(context.Context) (int, error) { return 1, nil },
		wp.WithName("ok"), wp.WithPriority(4))
	require.NoError(t, err)
	_, err = wp.Submit(p, func(context.Context) (int, error) { return 0, errors.New("broken") },
		wp.WithName("bad"), wp.WithPriority(1))
	require.NoError(t, err)
	p.Resume()
	require.NoError(t, p.Wait(waitCtx(t)))

	spans := sr.Ended()
	require.Len(t, spans, 2)

	okSpan, badSpan := spans[0], spans[1]
	assert.Equal(t, "workerpool.task", okSpan.Name())
	assert.Contains(t, okSpan.Attributes(), attribute.String("workerpool.task.name", "ok"))
	assert.Contains(t, okSpan.Attributes(), attribute.Int("workerpool.priority", 4))
	assert.Contains(t, okSpan.Attributes(), attribute.Int("workerpool.task.attempts", 1))
	assert.NotEqual(t, codes.Error, okSpan.Status().Code)

	assert.Contains(t, badSpan.Attributes(), attribute.String("workerpool.task.name", "bad"))
	assert.Equal(t, codes.Error, badSpan.Status().Code)
}
