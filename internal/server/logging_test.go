package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func serveLogged(path string, status int) {
	r := chi.NewRouter()
	r.Use(slogMiddleware)
	r.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func TestSlogMiddleware_LogsRequest(t *testing.T) {
	buf := captureLogs(t)

	serveLogged("/", http.StatusOK)

	output := buf.String()
	for _, field := range []string{
		`msg="http request"`,
		"method=GET",
		"path=/",
		"status=200",
		"remote_addr=",
		"duration_ms=",
		"level=INFO",
	} {
		if !strings.Contains(output, field) {
			t.Errorf("expected log to contain %q, got: %s", field, output)
		}
	}
}

func TestSlogMiddleware_SkipsHealthCheck(t *testing.T) {
	buf := captureLogs(t)

	serveLogged("/api/health", http.StatusOK)

	if output := buf.String(); output != "" {
		t.Errorf("expected no log output for /api/health, got: %s", output)
	}
}

func TestSlogMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusSeeOther, "level=INFO"},
		{http.StatusNotFound, "level=INFO"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := captureLogs(t)

			serveLogged("/grid/commands", tt.status)

			output := buf.String()
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected %s, got: %s", tt.level, output)
			}
		})
	}
}

func TestSlogMiddleware_MarksWebsocketPaths(t *testing.T) {
	buf := captureLogs(t)

	serveLogged("/ws/walls/abc", http.StatusBadRequest)

	if !strings.Contains(buf.String(), "websocket=true") {
		t.Errorf("expected websocket attribute, got: %s", buf.String())
	}
}

func TestStatusRecorder_HijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	if _, _, err := rec.Hijack(); err == nil {
		t.Error("expected an error from a writer that cannot hijack")
	}
}
