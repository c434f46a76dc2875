package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/socratic-tutor/tutor-go/internal/client"
	"github.com/socratic-tutor/tutor-go/internal/model"
	"github.com/socratic-tutor/tutor-go/internal/service"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedCompleter 按请求的 system 提示词返回导师或协学者的预设输出
type scriptedCompleter struct {
	mu        sync.Mutex
	tutor     string
	colearner string
	calls     int
}

func (s *scriptedCompleter) ChatCompletion(_ context.Context, req client.CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if req.Messages[0].Content == service.ColearnerPrompt {
		return s.colearner, nil
	}
	return s.tutor, nil
}

func (s *scriptedCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubStats struct {
	counts map[string]int64
	err    error
}

func (s stubStats) Record(context.Context, model.Category) error { return nil }

func (s stubStats) Counts(context.Context) (map[string]int64, error) { return s.counts, s.err }

func newChatEngine(sc *scriptedCompleter) *gin.Engine {
	svc := service.NewTutorService(sc, nil, service.TutorOptions{Model: "m", TutorTemperature: 0.7, ColearnerTemperature: 0.8}, zap.NewNop())
	r := gin.New()
	r.POST("/api/chat", NewChatHandler(svc, zap.NewNop()).Chat)
	r.GET("/ws/chat", NewWebSocketHandler(svc, zap.NewNop()).HandleWebSocket)
	return r
}

func postChat(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var decoded map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rr.Body.String())
	}
	return rr, decoded
}

func TestChat_TutorOnly(t *testing.T) {
	sc := &scriptedCompleter{tutor: `{"category":"problem_solving_strategy","response":"What are we adding?"}`}
	rr, body := postChat(t, newChatEngine(sc), `{"messages":[],"new_message":"What is 2+3?"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rr.Code, body)
	}
	if body["response"] != "What are we adding?" || body["category"] != "problem_solving_strategy" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["colearner_response"]; ok {
		t.Error("colearner_response must be absent")
	}
	if sc.Calls() != 1 {
		t.Errorf("upstream calls = %d, want 1", sc.Calls())
	}
}

func TestChat_WithColearner(t *testing.T) {
	sc := &scriptedCompleter{
		tutor:     `{"category":"procedural_difficulty","response":"How many tens?"}`,
		colearner: `{"response":"Let's draw ten sticks!"}`,
	}
	payload := `{"messages":[{"role":"assistant","content":"Think about grouping tens.","category":"procedural_difficulty"}],"new_message":"Is it 12?","include_colearner":true}`
	rr, body := postChat(t, newChatEngine(sc), payload)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rr.Code, body)
	}
	if body["colearner_response"] != "Let's draw ten sticks!" {
		t.Errorf("colearner_response = %v", body["colearner_response"])
	}
	if body["response"] == nil || body["category"] == nil {
		t.Errorf("tutor fields missing: %v", body)
	}
	if sc.Calls() != 2 {
		t.Errorf("upstream calls = %d, want 2", sc.Calls())
	}
}

func TestChat_UpstreamMalformed(t *testing.T) {
	tests := []struct {
		name      string
		tutor     string
		colearner string
		colearn   bool
	}{
		{"tutor not json", "Sure! Let's think.", "", false},
		{"tutor missing category", `{"response":"hi"}`, "", false},
		{"co-learner missing response", `{"category":"math_anxiety","response":"ok"}`, `{}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc := &scriptedCompleter{tutor: tc.tutor, colearner: tc.colearner}
			payload, _ := json.Marshal(model.ChatRequest{Messages: []model.Turn{}, NewMessage: "x", IncludeColearner: tc.colearn})
			rr, body := postChat(t, newChatEngine(sc), string(payload))

			if rr.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rr.Code)
			}
			detail, _ := body["detail"].(string)
			if !strings.HasPrefix(detail, "An error occurred: ") {
				t.Errorf("detail = %q", detail)
			}
			if _, ok := body["response"]; ok {
				t.Error("no partial result expected")
			}
		})
	}
}

func TestChat_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"messages":`},
		{"missing new_message", `{"messages":[]}`},
		{"missing messages", `{"new_message":"hi"}`},
		{"null body", `null`},
		{"turn without role", `{"messages":[{"content":"x"}],"new_message":"hi"}`},
		{"turn without content", `{"messages":[{"role":"user"}],"new_message":"hi"}`},
		{"null new_message", `{"messages":[],"new_message":null}`},
		{"non-string new_message", `{"messages":[],"new_message":42}`},
		{"wrong type", `{"messages":[],"new_message":"hi","include_colearner":"yes"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc := &scriptedCompleter{}
			rr, body := postChat(t, newChatEngine(sc), tc.body)

			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rr.Code)
			}
			if body["detail"] == nil {
				t.Error("detail missing")
			}
			if sc.Calls() != 0 {
				t.Errorf("upstream must not be called, calls = %d", sc.Calls())
			}
		})
	}
}

func TestChat_EmptyStringsAccepted(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty new_message", `{"messages":[],"new_message":""}`},
		{"empty role", `{"messages":[{"role":"","content":"x"}],"new_message":"hi"}`},
		{"empty content", `{"messages":[{"role":"user","content":""}],"new_message":"hi"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc := &scriptedCompleter{tutor: `{"category":"general_interaction","response":"What would you like to explore?"}`}
			rr, body := postChat(t, newChatEngine(sc), tc.body)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %v", rr.Code, body)
			}
			if sc.Calls() != 1 {
				t.Errorf("upstream calls = %d, want 1", sc.Calls())
			}
		})
	}
}

func TestChat_EmptyColearnerReply(t *testing.T) {
	sc := &scriptedCompleter{
		tutor:     `{"category":"general_interaction","response":"Hello!"}`,
		colearner: `{"response":""}`,
	}
	rr, body := postChat(t, newChatEngine(sc), `{"messages":[],"new_message":"hi","include_colearner":true}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rr.Code, body)
	}
	v, ok := body["colearner_response"]
	if !ok {
		t.Fatal("colearner_response must be present when the co-learner succeeded")
	}
	if v != "" {
		t.Errorf("colearner_response = %v, want empty string", v)
	}
}

func TestAPIHandler(t *testing.T) {
	r := gin.New()
	h := NewAPIHandler("tutor-test", stubStats{counts: map[string]int64{"math_anxiety": 3}}, zap.NewNop())
	r.GET("/api/health", h.Health)
	r.GET("/api/categories", h.Categories)
	r.GET("/api/stats/categories", h.CategoryStats)

	get := func(path string) (int, map[string]any) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		var body map[string]any
		_ = json.Unmarshal(rr.Body.Bytes(), &body)
		return rr.Code, body
	}

	code, body := get("/api/health")
	if code != http.StatusOK || body["status"] != "UP" || body["service"] != "tutor-test" {
		t.Errorf("health = %d %v", code, body)
	}

	code, body = get("/api/categories")
	list, _ := body["categories"].([]any)
	if code != http.StatusOK || len(list) != 7 {
		t.Errorf("categories = %d %v", code, body)
	}

	code, body = get("/api/stats/categories")
	stats, _ := body["stats"].(map[string]any)
	if code != http.StatusOK || stats["math_anxiety"] != float64(3) {
		t.Errorf("stats = %d %v", code, body)
	}
}

func TestAPIHandler_StatsError(t *testing.T) {
	r := gin.New()
	h := NewAPIHandler("t", stubStats{err: errors.New("redis down")}, zap.NewNop())
	r.GET("/api/stats/categories", h.CategoryStats)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stats/categories", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestAPIHandler_NilStats(t *testing.T) {
	r := gin.New()
	r.GET("/api/stats/categories", NewAPIHandler("t", nil, zap.NewNop()).CategoryStats)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stats/categories", nil))
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != `{"stats":{}}` {
		t.Errorf("got %d %s", rr.Code, rr.Body.String())
	}
}
