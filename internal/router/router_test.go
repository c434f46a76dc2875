package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/socratic-tutor/tutor-go/internal/client"
	"github.com/socratic-tutor/tutor-go/internal/handler"
	"github.com/socratic-tutor/tutor-go/internal/service"
	"go.uber.org/zap"
)

type staticCompleter string

func (s staticCompleter) ChatCompletion(context.Context, client.CompletionRequest) (string, error) {
	return string(s), nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Socratic Math Tutor</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('tutor')"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := zap.NewNop()
	svc := service.NewTutorService(staticCompleter(`{"category":"general_interaction","response":"Hi!"}`), nil, service.TutorOptions{Model: "m"}, logger)
	return New(Handlers{
		Chat:      handler.NewChatHandler(svc, logger),
		WebSocket: handler.NewWebSocketHandler(svc, logger),
		API:       handler.NewAPIHandler("tutor", nil, logger),
	}, dir)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		contains string
	}{
		{"landing page", http.MethodGet, "/", "", http.StatusOK, "Socratic Math Tutor"},
		{"static asset", http.MethodGet, "/static/app.js", "", http.StatusOK, "console.log"},
		{"missing asset", http.MethodGet, "/static/nope.css", "", http.StatusNotFound, ""},
		{"chat", http.MethodPost, "/api/chat", `{"messages":[],"new_message":"hello"}`, http.StatusOK, `"category":"general_interaction"`},
		{"health", http.MethodGet, "/api/health", "", http.StatusOK, `"UP"`},
		{"categories", http.MethodGet, "/api/categories", "", http.StatusOK, "correct_answer"},
		{"stats", http.MethodGet, "/api/stats/categories", "", http.StatusOK, `"stats"`},
		{"preflight", http.MethodOptions, "/api/chat", "", http.StatusNoContent, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.wantCode, rr.Body.String())
			}
			if tc.contains != "" && !strings.Contains(rr.Body.String(), tc.contains) {
				t.Errorf("body %q does not contain %q", rr.Body.String(), tc.contains)
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Error("X-Request-ID header missing")
			}
		})
	}
}
