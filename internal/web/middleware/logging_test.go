package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/sheetclean/internal/logging"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "debug", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{"ok", http.StatusOK, "hello", "level=INFO"},
		{"client error", http.StatusNotFound, "", "level=WARN"},
		{"server error", http.StatusInternalServerError, "boom", "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			var seenIP string
			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenIP = logging.ClientIP(r.Context())
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/workspaces", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if seenIP != req.RemoteAddr {
				t.Errorf("client ip in context = %q, want %q", seenIP, req.RemoteAddr)
			}
			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("log %q missing %q", out, tt.wantLevel)
			}
			if !strings.Contains(out, "path=/api/workspaces") {
				t.Errorf("log %q missing path", out)
			}
		})
	}
}

func TestLogger_ImplicitOKAndBytes(t *testing.T) {
	buf := captureLogs(t)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("12345"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out := buf.String()
	if !strings.Contains(out, "status=200") || !strings.Contains(out, "bytes=5") {
		t.Errorf("log %q missing status or byte count", out)
	}
}
