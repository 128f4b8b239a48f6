package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cleberrangel/time-perception-api/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRequestIDHeaders(t *testing.T) {
	r := newRouter(RequestID())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
	if len(rec.Header().Get(HeaderRequestID)) != 8 {
		t.Errorf("expected generated 8 char request id, got %q", rec.Header().Get(HeaderRequestID))
	}
	if rec.Header().Get(HeaderTraceID) == "" {
		t.Error("expected generated trace id")
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(HeaderRequestID, "client-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get(HeaderRequestID) != "client-id" {
		t.Errorf("expected propagated request id, got %q", rec.Header().Get(HeaderRequestID))
	}

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 200))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if len(rec.Header().Get(HeaderRequestID)) != 8 {
		t.Error("oversized request id should be replaced")
	}
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS([]string{"http://localhost:3000"}))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("expected allowed origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unexpected CORS header for unknown origin")
	}

	req = httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
}

func TestCORSWildcard(t *testing.T) {
	r := newRouter(CORS([]string{"*"}))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://anything.local")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://anything.local" {
		t.Error("wildcard should allow any origin")
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(60) // burst de 6
	for i := 0; i < 6; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("expected request beyond burst to be blocked")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("limits must be per client")
	}

	r := newRouter(NewRateLimiter(1).Middleware())
	codes := []int{}
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected [200 429], got %v", codes)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0)
	for i := 0; i < 100; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatal("limiter with zero rate should be disabled")
		}
	}
}

func TestSanitizeEntry(t *testing.T) {
	category := "   "
	notes := "  line one\nline two\x00\x07 "
	req := model.EntryCreate{
		Title:    "  Fix <b>bug</b>\x00 ",
		Category: &category,
		Notes:    &notes,
	}

	SanitizeEntry(&req)

	if req.Title != "Fix <b>bug</b>" {
		t.Errorf("unexpected title %q", req.Title)
	}
	if req.Category != nil {
		t.Errorf("blank category should become nil, got %q", *req.Category)
	}
	if req.Notes == nil || *req.Notes != "line one\nline two" {
		t.Errorf("unexpected notes %v", req.Notes)
	}
}

func TestSanitizeStringProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sanitized strings never exceed the limit nor contain null bytes", prop.ForAll(
		func(input string, limit int) bool {
			out := SanitizeString(input, SanitizeConfig{MaxStringLength: limit, AllowHTML: false})
			return len([]rune(out)) <= limit && !strings.Contains(out, "\x00")
		},
		gen.AnyString(),
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}

func TestParseID(t *testing.T) {
	for raw, expected := range map[string]bool{"1": true, " 42 ": true, "0": false, "-3": false, "abc": false, "": false} {
		if _, ok := ParseID(raw); ok != expected {
			t.Errorf("ParseID(%q) ok=%v, expected %v", raw, ok, expected)
		}
	}
}
