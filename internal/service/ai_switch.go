package service

import (
	"sync"
	"time"

	"acaia_backend/internal/config"
	"acaia_backend/internal/model"
	"acaia_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SwitchableAI wraps the active AI client so it can be replaced on a
// config reload without rebuilding the services that hold it.
type SwitchableAI struct {
	mu    sync.RWMutex
	inner AIClient
}

func NewSwitchableAI(inner AIClient) *SwitchableAI {
	return &SwitchableAI{inner: inner}
}

// Reconfigure rebuilds the underlying client from the given AI config.
func (s *SwitchableAI) Reconfigure(cfg config.AIConfig, logger *zap.Logger) {
	client := NewAIClient(cfg, logger)
	s.mu.Lock()
	s.inner = client
	s.mu.Unlock()
}

func (s *SwitchableAI) current() AIClient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner
}

func (s *SwitchableAI) ChatReply(history []model.ChatMessage, chatCtx ChatContext) (string, int, error) {
	start := time.Now()
	reply, tokens, err := s.current().ChatReply(history, chatCtx)
	monitoring.ObserveAIRequest("chat_reply", start, err)
	return reply, tokens, err
}

func (s *SwitchableAI) GenerateProblem(params ProblemParams) (*GeneratedProblem, error) {
	start := time.Now()
	problem, err := s.current().GenerateProblem(params)
	monitoring.ObserveAIRequest("generate_problem", start, err)
	return problem, err
}

func (s *SwitchableAI) GenerateExam(params ExamParams) (*GeneratedExam, error) {
	start := time.Now()
	exam, err := s.current().GenerateExam(params)
	monitoring.ObserveAIRequest("generate_exam", start, err)
	return exam, err
}

func (s *SwitchableAI) CareerAdvice(profile CareerProfile) (*CareerAdviceResult, error) {
	start := time.Now()
	advice, err := s.current().CareerAdvice(profile)
	monitoring.ObserveAIRequest("career_advice", start, err)
	return advice, err
}
