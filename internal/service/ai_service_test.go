package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"acaia_backend/internal/config"
	"acaia_backend/internal/model"
	"acaia_backend/internal/util"

	"go.uber.org/zap"
)

func TestNewAIClientSelection(t *testing.T) {
	tests := []struct {
		apiKey      string
		wantOffline bool
	}{
		{"", true},
		{"your-openai-api-key", true},
		{"sk-mock-key-for-development", true},
		{"sk-real-key", false},
	}
	for _, tt := range tests {
		client := NewAIClient(config.AIConfig{APIKey: tt.apiKey, Model: "gpt-4"}, zap.NewNop())
		_, offline := client.(*offlineAIClient)
		if offline != tt.wantOffline {
			t.Errorf("NewAIClient(%q): offline = %v, want %v", tt.apiKey, offline, tt.wantOffline)
		}
	}
}

func completionHandler(t *testing.T, content string, tokens int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"total_tokens": tokens},
		})
	}
}

func newTestOpenAIClient(baseURL string) *openAIClient {
	return &openAIClient{
		config: config.AIConfig{BaseURL: baseURL, APIKey: "sk-test", Model: "gpt-4"},
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestOpenAIClientChatReply(t *testing.T) {
	srv := httptest.NewServer(completionHandler(t, "Rešenje je x = 2.", 123))
	defer srv.Close()

	client := newTestOpenAIClient(srv.URL)
	reply, tokens, err := client.ChatReply([]model.ChatMessage{
		{Role: model.RoleUser, Content: "Kako se rešava?"},
	}, ChatContext{Subject: "mathematics"})
	if err != nil {
		t.Fatalf("ChatReply: %v", err)
	}
	if reply != "Rešenje je x = 2." {
		t.Errorf("reply = %q", reply)
	}
	if tokens != 123 {
		t.Errorf("tokens = %d, want 123", tokens)
	}
}

func TestOpenAIClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestOpenAIClient(srv.URL)
	_, _, err := client.ChatReply(nil, ChatContext{})
	if !errors.Is(err, util.ErrAIService) {
		t.Fatalf("err = %v, want ErrAIService", err)
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := newTestOpenAIClient(srv.URL)
	_, _, err := client.ChatReply(nil, ChatContext{})
	if !errors.Is(err, util.ErrAIService) {
		t.Fatalf("err = %v, want ErrAIService", err)
	}
}

func TestOpenAIClientGenerateProblemFencedJSON(t *testing.T) {
	fenced := "```json\n{\"title\":\"Zadatak\",\"question\":\"Koliko je 2+2?\",\"correctAnswer\":\"4\",\"hints\":[]}\n```"
	srv := httptest.NewServer(completionHandler(t, fenced, 200))
	defer srv.Close()

	client := newTestOpenAIClient(srv.URL)
	problem, err := client.GenerateProblem(ProblemParams{Subject: "mathematics", Difficulty: model.Beginner, Type: model.MultipleChoice})
	if err != nil {
		t.Fatalf("GenerateProblem: %v", err)
	}
	if problem.Title != "Zadatak" || problem.CorrectAnswer != "4" {
		t.Errorf("problem = %+v", problem)
	}
	if problem.EstimatedTime != 15 {
		t.Errorf("EstimatedTime = %d, want 15 default", problem.EstimatedTime)
	}
}

func TestOpenAIClientMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(completionHandler(t, "ovo nije JSON", 10))
	defer srv.Close()

	client := newTestOpenAIClient(srv.URL)
	if _, err := client.GenerateExam(ExamParams{Subject: "math"}); !errors.Is(err, util.ErrAIService) {
		t.Fatalf("err = %v, want ErrAIService", err)
	}
}

func TestParseJSONReply(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}

	for _, content := range []string{
		`{"a":1}`,
		"```json\n{\"a\":1}\n```",
		"```\n{\"a\":1}\n```",
		"  {\"a\":1}  ",
	} {
		v.A = 0
		if err := parseJSONReply(content, &v); err != nil {
			t.Errorf("parseJSONReply(%q): %v", content, err)
		}
		if v.A != 1 {
			t.Errorf("parseJSONReply(%q): a = %d", content, v.A)
		}
	}

	if err := parseJSONReply("nevalidno", &v); !errors.Is(err, util.ErrAIService) {
		t.Errorf("malformed: err = %v, want ErrAIService", err)
	}
}

func TestOfflineGenerateExamPointsSplit(t *testing.T) {
	client := &offlineAIClient{}
	exam, err := client.GenerateExam(ExamParams{Subject: "math", NumberOfQuestions: 3, Duration: 45})
	if err != nil {
		t.Fatalf("GenerateExam: %v", err)
	}
	if len(exam.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(exam.Questions))
	}
	for _, q := range exam.Questions {
		if q.Points != 33 {
			t.Errorf("Points = %d, want 33", q.Points)
		}
	}
	if exam.EstimatedDuration != 45 {
		t.Errorf("EstimatedDuration = %d, want 45", exam.EstimatedDuration)
	}
}
