package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"acaia_backend/internal/config"
	"acaia_backend/internal/middleware"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/service"
	"acaia_backend/internal/util"
	"acaia_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const testSecret = "controller-test-secret"

type testEnv struct {
	router *gin.Engine
	store  *repository.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	store := repository.NewMemoryStore()
	ai := service.NewAIClient(config.AIConfig{}, zap.NewNop())
	jwtCfg := config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour}

	storageCfg := &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()}}

	authSvc := service.NewAuthService(store, jwtCfg)
	chatSvc := service.NewChatService(store, ai)
	problemSvc := service.NewProblemService(store, ai)
	examSvc := service.NewExamService(store, ai)
	careerSvc := service.NewCareerService(ai)
	storageSvc := service.NewStorageService(storageCfg)

	auth := NewAuthController(authSvc, storageSvc)
	chat := NewChatController(chatSvc)
	problem := NewProblemController(problemSvc)
	exam := NewExamController(examSvc)
	career := NewCareerController(careerSvc)
	health := NewHealthController(nil)

	router := gin.New()
	router.GET("/health", health.HealthCheck)
	router.GET("/api", health.APIInfo)

	api := router.Group("/api/v1")
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.GET("/problems", problem.ListProblems)
	api.GET("/problems/:id", problem.GetProblem)
	api.GET("/exams", exam.ListExams)
	api.GET("/exams/:id", exam.GetExam)
	api.GET("/career/paths", career.Paths)
	api.GET("/career/learning-path", career.LearningPath)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(testSecret, store))
	authed.GET("/auth/me", auth.Me)
	authed.PUT("/auth/profile", auth.UpdateProfile)
	authed.PUT("/auth/password", auth.ChangePassword)
	authed.POST("/auth/avatar", auth.UploadAvatar)
	authed.POST("/chat", chat.CreateChat)
	authed.GET("/chat", chat.ListChats)
	authed.GET("/chat/:id", chat.GetChat)
	authed.POST("/chat/:id/messages", chat.SendMessage)
	authed.POST("/problems/generate", problem.GenerateProblem)
	authed.POST("/problems/:id/solve", problem.SolveProblem)
	authed.POST("/problems/:id/rate", problem.RateProblem)
	authed.POST("/problems", problem.CreateProblem)
	authed.POST("/exams/generate", exam.GenerateExam)
	authed.POST("/exams/:id/submit", exam.SubmitExam)
	authed.GET("/exams/:id/results", exam.Results)
	authed.GET("/exams/:id/stats", exam.Stats)
	authed.POST("/career/advice", career.Advice)
	authed.POST("/career/assessment", career.Assessment)

	return &testEnv{router: router, store: store}
}

// tokenFor signs a token for a seeded user.
func (e *testEnv) tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	user, err := e.store.FindUserByID(userID)
	if err != nil {
		t.Fatalf("FindUserByID(%d): %v", userID, err)
	}
	token, err := util.GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var envelope util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: malformed envelope %q: %v", method, path, w.Body.String(), err)
	}
	return w, envelope
}

func dataMap(t *testing.T, envelope util.Response) map[string]interface{} {
	t.Helper()
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", envelope.Data)
	}
	return data
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w, envelope := env.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || !envelope.Success {
		t.Fatalf("code = %d, success = %v", w.Code, envelope.Success)
	}
	data := dataMap(t, envelope)
	components := data["components"].(map[string]interface{})
	if components["store"] != "memory" {
		t.Errorf("store = %v, want memory", components["store"])
	}
}

func TestAPIInfoEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w, envelope := env.do(t, http.MethodGet, "/api", "", nil)
	if w.Code != http.StatusOK || !envelope.Success {
		t.Fatalf("code = %d, success = %v", w.Code, envelope.Success)
	}
	data := dataMap(t, envelope)
	endpoints := data["endpoints"].(map[string]interface{})
	for _, group := range []string{"auth", "chat", "problems", "exams", "career"} {
		if endpoints[group] == nil {
			t.Errorf("endpoint group %q missing", group)
		}
	}
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w, envelope := env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     "ana@example.com",
		"password":  "lozinka1",
		"firstName": "Ana",
		"lastName":  "Anić",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
	data := dataMap(t, envelope)
	if data["token"] == "" || data["token"] == nil {
		t.Error("token missing")
	}
	user := data["user"].(map[string]interface{})
	if user["fullName"] != "Ana Anić" {
		t.Errorf("fullName = %v", user["fullName"])
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password hash serialized in response")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	w, envelope := env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "not-an-email",
		"password": "x",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
	if envelope.Success || envelope.Message != "validation failed" {
		t.Errorf("envelope = %+v", envelope)
	}
	if envelope.Errors == "" {
		t.Error("field errors missing")
	}
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     "test@example.com",
		"password":  "lozinka1",
		"firstName": "T",
		"lastName":  "U",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", w.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w, envelope := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "test@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK || !envelope.Success {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}

	w, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "test@example.com",
		"password": "pogrešna",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: code = %d, want 401", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/chat"},
		{http.MethodPost, "/api/v1/problems/generate"},
		{http.MethodPost, "/api/v1/exams/1/submit"},
		{http.MethodPost, "/api/v1/career/assessment"},
	}
	for _, r := range routes {
		w, envelope := env.do(t, r.method, r.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: code = %d, want 401", r.method, r.path, w.Code)
		}
		if envelope.Success {
			t.Errorf("%s %s: success = true on a 401", r.method, r.path)
		}
	}

	w, _ := env.do(t, http.MethodGet, "/api/v1/auth/me", "garbage-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: code = %d, want 401", w.Code)
	}
}

func TestListProblemsEnvelope(t *testing.T) {
	env := newTestEnv(t)

	w, envelope := env.do(t, http.MethodGet, "/api/v1/problems?subject=mathematics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	data := dataMap(t, envelope)
	problems := data["problems"].([]interface{})
	if len(problems) != 2 {
		t.Errorf("problems = %d, want 2 seeded", len(problems))
	}
	pagination := data["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 2 {
		t.Errorf("pagination.total = %v", pagination["total"])
	}
}

func TestGetExamHidesAnswers(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/v1/exams/1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "correctAnswer") {
		t.Error("exam payload leaks correct answers")
	}
	if strings.Contains(w.Body.String(), "submissions") {
		t.Error("exam payload leaks submissions")
	}
}

func TestSolveProblemEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, 1)

	w, envelope := env.do(t, http.MethodPost, "/api/v1/problems/1/solve", token, gin.H{
		"answer": "x = 2 ili x = 3",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
	if envelope.Message != "correct answer" {
		t.Errorf("message = %q", envelope.Message)
	}

	w, envelope = env.do(t, http.MethodPost, "/api/v1/problems/1/solve", token, gin.H{
		"answer": "x = 9",
	})
	if w.Code != http.StatusOK || envelope.Message != "incorrect answer" {
		t.Errorf("code = %d, message = %q", w.Code, envelope.Message)
	}
}

func TestRateProblemEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, 1)

	w, _ := env.do(t, http.MethodPost, "/api/v1/problems/1/rate", token, gin.H{"rating": 9})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range rating: code = %d, want 400", w.Code)
	}

	w, envelope := env.do(t, http.MethodPost, "/api/v1/problems/1/rate", token, gin.H{"rating": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	data := dataMap(t, envelope)
	if data["newRating"].(float64) != 5 {
		t.Errorf("newRating = %v, want 5", data["newRating"])
	}
}

func TestSubmitExamEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, 1)

	w, envelope := env.do(t, http.MethodPost, "/api/v1/exams/1/submit", token, gin.H{
		"answers":   []gin.H{{"answer": "x = 1, x = 3"}, {"answer": "0"}},
		"timeSpent": 400,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
	data := dataMap(t, envelope)
	if data["score"].(float64) != 100 {
		t.Errorf("score = %v, want 100", data["score"])
	}
	if data["passed"] != true {
		t.Errorf("passed = %v", data["passed"])
	}

	// Second submit from the same user conflicts.
	w, _ = env.do(t, http.MethodPost, "/api/v1/exams/1/submit", token, gin.H{
		"answers": []gin.H{{"answer": "x"}},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("second submit: code = %d, want 409", w.Code)
	}

	// And its results are now readable.
	w, envelope = env.do(t, http.MethodGet, "/api/v1/exams/1/results", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("results: code = %d", w.Code)
	}
	submission := dataMap(t, envelope)["submission"].(map[string]interface{})
	if submission["score"].(float64) != 100 {
		t.Errorf("stored score = %v", submission["score"])
	}
}

func TestExamStatsPermissions(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/v1/exams/1/stats", env.tokenFor(t, 1), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student: code = %d, want 403", w.Code)
	}

	// Seeded user 2 is an admin.
	w, _ = env.do(t, http.MethodGet, "/api/v1/exams/1/stats", env.tokenFor(t, 2), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: code = %d, want 200", w.Code)
	}
}

func TestChatFlowEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, 1)

	w, envelope := env.do(t, http.MethodPost, "/api/v1/chat", token, gin.H{
		"title":   "Fizika",
		"subject": "physics",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: code = %d, body %s", w.Code, w.Body.String())
	}
	chat := dataMap(t, envelope)["chat"].(map[string]interface{})
	chatID := int(chat["id"].(float64))

	path := "/api/v1/chat/" + strconv.Itoa(chatID) + "/messages"
	w, envelope = env.do(t, http.MethodPost, path, token, gin.H{"content": "Šta je sila?"})
	if w.Code != http.StatusOK {
		t.Fatalf("send: code = %d, body %s", w.Code, w.Body.String())
	}
	data := dataMap(t, envelope)
	assistant := data["assistantMessage"].(map[string]interface{})
	if assistant["content"] == "" {
		t.Error("assistant reply empty")
	}

	w, _ = env.do(t, http.MethodGet, "/api/v1/chat/999", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown chat: code = %d, want 404", w.Code)
	}
}

func TestCareerEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, 1)

	w, envelope := env.do(t, http.MethodGet, "/api/v1/career/paths", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("paths: code = %d", w.Code)
	}
	if dataMap(t, envelope)["total"].(float64) != 3 {
		t.Errorf("total = %v, want 3", dataMap(t, envelope)["total"])
	}

	w, _ = env.do(t, http.MethodGet, "/api/v1/career/learning-path?careerPath=nepostojeći", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown path: code = %d, want 404", w.Code)
	}

	w, envelope = env.do(t, http.MethodGet, "/api/v1/career/learning-path?careerPath=web-development&currentLevel=intermediate", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("learning path: code = %d", w.Code)
	}
	if dataMap(t, envelope)["currentLevel"] != "intermediate" {
		t.Errorf("currentLevel = %v", dataMap(t, envelope)["currentLevel"])
	}

	w, _ = env.do(t, http.MethodPost, "/api/v1/career/assessment", token, gin.H{"experience": 3})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing skills: code = %d, want 400", w.Code)
	}

	w, envelope = env.do(t, http.MethodPost, "/api/v1/career/assessment", token, gin.H{
		"skills":     []string{"programming"},
		"experience": 3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("assessment: code = %d, body %s", w.Code, w.Body.String())
	}
	if dataMap(t, envelope)["userId"].(float64) != 1 {
		t.Errorf("userId = %v", dataMap(t, envelope)["userId"])
	}

	// Zero years of experience is a legitimate answer, not a missing field.
	w, _ = env.do(t, http.MethodPost, "/api/v1/career/assessment", token, gin.H{
		"skills":     []string{"programming"},
		"experience": 0,
	})
	if w.Code != http.StatusOK {
		t.Errorf("zero experience: code = %d, body %s", w.Code, w.Body.String())
	}

	w, _ = env.do(t, http.MethodPost, "/api/v1/career/assessment", token, gin.H{
		"skills":     []string{"programming"},
		"experience": -2,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative experience: code = %d, want 400", w.Code)
	}
}

func TestUploadAvatarEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, 1)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", "slika.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("png-bytes"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/avatar", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
	var envelope util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	picture := dataMap(t, envelope)["profilePicture"].(string)
	if !strings.HasPrefix(picture, "/uploads/avatars/1/") || !strings.HasSuffix(picture, ".png") {
		t.Errorf("profilePicture = %q", picture)
	}
}

func TestUploadAvatarRejectsBadExtension(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, 1)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("avatar", "skripta.sh")
	part.Write([]byte("#!/bin/sh"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/avatar", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}
