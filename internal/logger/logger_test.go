package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("not-a-level", true, &buf)
	if Level() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", Level())
	}
}

func TestContextLoggerCarriesIDs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("debug", true, &buf)

	ctx := WithRequestID(context.Background(), "abc12345")
	ctx = WithTraceID(ctx, "trace-1")

	Get(ctx).Info().Msg("hello")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json log line %q: %v", buf.String(), err)
	}
	if line["request_id"] != "abc12345" || line["trace_id"] != "trace-1" {
		t.Errorf("missing ids in log line: %v", line)
	}
	if GetRequestID(ctx) != "abc12345" || GetTraceID(ctx) != "trace-1" {
		t.Error("ids not stored in context")
	}
	if GetRequestID(context.Background()) != "" {
		t.Error("expected empty request id for bare context")
	}
}

func TestAuditEventIncludesAction(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", true, &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	Audit(ctx, AuditEvent{
		Action:     AuditActionEntryCreate,
		Resource:   "entry",
		ResourceID: "42",
		Success:    true,
	})

	out := buf.String()
	for _, want := range []string{`"action":"ENTRY_CREATE"`, `"log_type":"audit"`, `"request_id":"req-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}
