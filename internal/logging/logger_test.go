package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New("info", "json", &buf).Info("hello", "chat_id", int64(42))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "hello" || rec["chat_id"] != float64(42) {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNew_TextFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", "text", &buf)
	l.Info("dropped")
	l.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "msg=kept") {
		t.Errorf("expected text record, got %q", out)
	}
}

func TestParseLevel_UnknownDefaultsToInfo(t *testing.T) {
	if got := ParseLevel("verbose"); got != slog.LevelInfo {
		t.Errorf("ParseLevel(verbose) = %v", got)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	fallback := New("info", "text", &buf)

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("expected fallback logger for bare context")
	}

	scoped := fallback.With("request_id", "r-1")
	ctx := WithLogger(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Error("expected logger stored in context")
	}
}
