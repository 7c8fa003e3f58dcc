package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestTraceOperation(t *testing.T) {
	attributes := map[string]interface{}{
		"string_attr":  "value",
		"int_attr":     42,
		"int64_attr":   int64(123),
		"bool_attr":    true,
		"float64_attr": 3.14,
		"unknown_attr": struct{}{},
	}

	spanCtx, span, cleanup := TraceOperation(context.Background(), "test_operation", attributes)

	assert.NotNil(t, spanCtx)
	assert.NotNil(t, span)
	if cleanup == nil {
		t.Fatal("TraceOperation() returned nil cleanup function")
	}
	cleanup()
}

func TestToAttributes(t *testing.T) {
	attrs := toAttributes(map[string]interface{}{
		"s": "v",
		"x": []int{1},
	})

	got := make(map[attribute.Key]string)
	for _, a := range attrs {
		got[a.Key] = a.Value.Emit()
	}
	assert.Equal(t, "v", got["s"])
	assert.Equal(t, "unknown_type", got["x"])
}

func TestTraceHelpers(t *testing.T) {
	ctx := context.Background()

	_, span := TraceCacheGet(ctx, "cep:01310930")
	AddTimingToSpan(span, time.Now().Add(-time.Millisecond))
	span.End()

	_, span = TraceBusinessLogic(ctx, "classify_response")
	span.End()

	_, span = TraceExternalService(ctx, "viacep", "lookup")
	RecordErrorInSpan(span, errors.New("boom"), map[string]interface{}{"cep": "01310930"})
	RecordErrorInSpan(span, nil, nil)
	span.End()
}
