package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithContext_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "req-123")
	cl := WithContext(ctx, l)
	cl.Info("hello")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got := out["correlation_id"]; got != "req-123" {
		t.Errorf("correlation_id = %v, want %q", got, "req-123")
	}
	if got := out["service"]; got != "test" {
		t.Errorf("service = %v, want %q", got, "test")
	}
}

func TestWithContext_UserID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	ctx := WithUserID(context.Background(), "17")
	cl := WithContext(ctx, l)
	cl.Info("with user")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got := out["user_id"]; got != "17" {
		t.Errorf("user_id = %v, want %q", got, "17")
	}
}

func TestWithContext_EmptyContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "info", &buf)

	cl := WithContext(context.Background(), l)
	cl.Info("bare")

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := out["correlation_id"]; ok {
		t.Error("correlation_id should not be present when not in context")
	}
	if _, ok := out["user_id"]; ok {
		t.Error("user_id should not be present when not in context")
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", "warn", &buf)

	l.Info("filtered out")
	if buf.Len() != 0 {
		t.Errorf("info log should be filtered at warn level, got %q", buf.String())
	}

	l.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn log should be written at warn level")
	}
}
