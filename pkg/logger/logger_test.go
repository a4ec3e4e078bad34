package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func logLine(t *testing.T, build func(context.Context) context.Context) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	ctx := context.Background()
	if build != nil {
		ctx = build(ctx)
	}
	WithContext(ctx, l).Info("probe")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	return out
}

func spanContext(t *testing.T, traceHex, spanHex string) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex(traceHex)
	if err != nil {
		t.Fatal(err)
	}
	spanID, err := trace.SpanIDFromHex(spanHex)
	if err != nil {
		t.Fatal(err)
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestWithContextFields(t *testing.T) {
	sc := spanContext(t, "4bf92f3577b34da6a3ce929d0e0e4736", "00f067aa0ba902b7")

	tests := []struct {
		name   string
		build  func(context.Context) context.Context
		want   map[string]string
		absent []string
	}{
		{
			name:   "empty context adds nothing",
			absent: []string{"correlation_id", "user_id", "trace_id", "span_id"},
		},
		{
			name:  "correlation id",
			build: func(ctx context.Context) context.Context { return WithCorrelationID(ctx, "req-123") },
			want:  map[string]string{"correlation_id": "req-123"},
		},
		{
			name:  "user id",
			build: func(ctx context.Context) context.Context { return WithUserID(ctx, "user-789") },
			want:  map[string]string{"user_id": "user-789"},
		},
		{
			name: "active span injects trace ids",
			build: func(ctx context.Context) context.Context {
				return trace.ContextWithSpanContext(ctx, sc)
			},
			want: map[string]string{
				"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
				"span_id":  "00f067aa0ba902b7",
			},
		},
		{
			name: "all fields together",
			build: func(ctx context.Context) context.Context {
				ctx = trace.ContextWithSpanContext(ctx, sc)
				ctx = WithCorrelationID(ctx, "req-all")
				return WithUserID(ctx, "user-all")
			},
			want: map[string]string{
				"correlation_id": "req-all",
				"user_id":        "user-all",
				"trace_id":       "4bf92f3577b34da6a3ce929d0e0e4736",
				"span_id":        "00f067aa0ba902b7",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := logLine(t, tt.build)
			for key, want := range tt.want {
				if got := out[key]; got != want {
					t.Errorf("%s = %v, want %q", key, got, want)
				}
			}
			for _, key := range tt.absent {
				if _, ok := out[key]; ok {
					t.Errorf("%s should not be present", key)
				}
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	l := NewWithWriter("test", "info", &bytes.Buffer{})

	if got := FromContext(NewContext(context.Background(), l)); got != l {
		t.Error("FromContext should return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext should fall back to a non-nil logger")
	}
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "warn", &buf)

	l.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info line emitted at warn level: %s", buf.String())
	}

	l.Warn("emitted")
	if buf.Len() == 0 {
		t.Error("warn line not emitted at warn level")
	}
}
