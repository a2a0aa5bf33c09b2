package service

import (
	"acaia_backend/internal/config"
	"acaia_backend/internal/model"
	"acaia_backend/internal/util"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AIClient is the boundary to the language model. The HTTP-backed client
// and the deterministic offline client are interchangeable; the rest of
// the services never know which one they got.
type AIClient interface {
	ChatReply(history []model.ChatMessage, chatCtx ChatContext) (content string, tokens int, err error)
	GenerateProblem(params ProblemParams) (*GeneratedProblem, error)
	GenerateExam(params ExamParams) (*GeneratedExam, error)
	CareerAdvice(profile CareerProfile) (*CareerAdviceResult, error)
}

type ChatContext struct {
	Subject           string
	Difficulty        model.Difficulty
	LearningObjective string
}

type ProblemParams struct {
	Subject            string
	Difficulty         model.Difficulty
	Type               model.ProblemType
	LearningObjectives []string
}

type GeneratedProblem struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Hints         []string `json:"hints"`
	EstimatedTime int      `json:"estimatedTime"`
}

type ExamParams struct {
	Subject           string
	Difficulty        model.Difficulty
	NumberOfQuestions int
	Duration          int
}

type GeneratedQuestion struct {
	Question      string             `json:"question"`
	Type          model.QuestionType `json:"type"`
	Options       []string           `json:"options,omitempty"`
	CorrectAnswer string             `json:"correctAnswer,omitempty"`
	Points        int                `json:"points"`
	Explanation   string             `json:"explanation,omitempty"`
}

type GeneratedExam struct {
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Questions         []GeneratedQuestion `json:"questions"`
	TotalPoints       int                 `json:"totalPoints"`
	EstimatedDuration int                 `json:"estimatedDuration"`
}

type CareerProfile struct {
	CurrentSkills []string `json:"currentSkills"`
	Interests     []string `json:"interests"`
	Experience    string   `json:"experience"`
	Goals         string   `json:"goals"`
}

type LearningPathItem struct {
	Skill         string   `json:"skill"`
	Priority      string   `json:"priority"`
	EstimatedTime string   `json:"estimatedTime"`
	Resources     []string `json:"resources"`
}

type CareerAdviceResult struct {
	Analysis        string             `json:"analysis"`
	Recommendations []string           `json:"recommendations"`
	LearningPath    []LearningPathItem `json:"learningPath"`
	NextSteps       []string           `json:"nextSteps"`
}

// NewAIClient picks the HTTP client when a usable API key is configured
// and falls back to the offline client otherwise.
func NewAIClient(cfg config.AIConfig, logger *zap.Logger) AIClient {
	if cfg.APIKey == "" || cfg.APIKey == "your-openai-api-key" || cfg.APIKey == "sk-mock-key-for-development" {
		logger.Info("AI client running in offline mode, no API key configured")
		return &offlineAIClient{}
	}
	return &openAIClient{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type aiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []aiChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message aiChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type openAIClient struct {
	config config.AIConfig
	client *http.Client
}

func (c *openAIClient) complete(req chatCompletionRequest) (*chatCompletionResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest("POST", c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrAIService, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", util.ErrAIService, resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrAIService, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrAIService, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", util.ErrAIService)
	}
	return &result, nil
}

func (c *openAIClient) ChatReply(history []model.ChatMessage, chatCtx ChatContext) (string, int, error) {
	messages := []aiChatMessage{{Role: "system", Content: buildTutorPrompt(chatCtx)}}
	for _, m := range history {
		messages = append(messages, aiChatMessage{Role: string(m.Role), Content: m.Content})
	}

	result, err := c.complete(chatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", 0, err
	}
	return result.Choices[0].Message.Content, result.Usage.TotalTokens, nil
}

// parseJSONReply tolerates the model wrapping its JSON in a code fence.
func parseJSONReply(content string, v interface{}) error {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("%w: malformed JSON reply: %v", util.ErrAIService, err)
	}
	return nil
}

func (c *openAIClient) GenerateProblem(params ProblemParams) (*GeneratedProblem, error) {
	result, err := c.complete(chatCompletionRequest{
		Model: c.config.Model,
		Messages: []aiChatMessage{
			{Role: "system", Content: "Ti si ekspert za kreiranje edukativnih problema. Generiši problem u JSON formatu."},
			{Role: "user", Content: buildProblemPrompt(params)},
		},
		MaxTokens:   2000,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, err
	}

	var problem GeneratedProblem
	if err := parseJSONReply(result.Choices[0].Message.Content, &problem); err != nil {
		return nil, err
	}
	if problem.EstimatedTime == 0 {
		problem.EstimatedTime = 15
	}
	return &problem, nil
}

func (c *openAIClient) GenerateExam(params ExamParams) (*GeneratedExam, error) {
	result, err := c.complete(chatCompletionRequest{
		Model: c.config.Model,
		Messages: []aiChatMessage{
			{Role: "system", Content: "Ti si ekspert za kreiranje simulacija ispita. Generiši ispit u JSON formatu."},
			{Role: "user", Content: buildExamPrompt(params)},
		},
		MaxTokens:   3000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	var exam GeneratedExam
	if err := parseJSONReply(result.Choices[0].Message.Content, &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

func (c *openAIClient) CareerAdvice(profile CareerProfile) (*CareerAdviceResult, error) {
	result, err := c.complete(chatCompletionRequest{
		Model: c.config.Model,
		Messages: []aiChatMessage{
			{Role: "system", Content: "Ti si karijerni savetnik. Daj personalizovane savete u JSON formatu."},
			{Role: "user", Content: buildCareerPrompt(profile)},
		},
		MaxTokens:   2500,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, err
	}

	var advice CareerAdviceResult
	if err := parseJSONReply(result.Choices[0].Message.Content, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}

func buildTutorPrompt(chatCtx ChatContext) string {
	var b strings.Builder
	b.WriteString("Ti si AcAIA, inteligentni AI asistent za učenje i razvoj. ")
	b.WriteString("Tvoj cilj je da pomogneš korisnicima da efikasno uče i razvijaju svoje veštine.\n")
	b.WriteString("Odgovaraj na srpskom jeziku, budi strpljiv, objašnjavaj korak po korak, ")
	b.WriteString("prilagodi se nivou korisnika i daj praktične primere.")
	if chatCtx.Subject != "" {
		fmt.Fprintf(&b, "\nPredmet: %s", chatCtx.Subject)
	}
	if chatCtx.Difficulty != "" {
		fmt.Fprintf(&b, "\nNivo: %s", chatCtx.Difficulty)
	}
	if chatCtx.LearningObjective != "" {
		fmt.Fprintf(&b, "\nCilj učenja: %s", chatCtx.LearningObjective)
	}
	return b.String()
}

func buildProblemPrompt(params ProblemParams) string {
	return fmt.Sprintf(`Generiši edukativni problem sa sledećim parametrima:
- Predmet: %s
- Nivo: %s
- Tip: %s
- Ciljevi učenja: %s

Odgovor mora biti u JSON formatu sa poljima:
{"title": "...", "description": "...", "question": "...", "options": ["..."], "correctAnswer": "...", "explanation": "...", "hints": ["..."], "estimatedTime": 15}`,
		params.Subject, params.Difficulty, params.Type, strings.Join(params.LearningObjectives, ", "))
}

func buildExamPrompt(params ExamParams) string {
	return fmt.Sprintf(`Generiši simulaciju ispita sa sledećim parametrima:
- Predmet: %s
- Nivo: %s
- Broj pitanja: %d
- Trajanje: %d minuta

Odgovor mora biti u JSON formatu sa poljima:
{"title": "...", "description": "...", "questions": [{"question": "...", "type": "multiple-choice", "options": ["..."], "correctAnswer": "...", "points": 10}], "totalPoints": 100, "estimatedDuration": %d}`,
		params.Subject, params.Difficulty, params.NumberOfQuestions, params.Duration, params.Duration)
}

func buildCareerPrompt(profile CareerProfile) string {
	return fmt.Sprintf(`Analiziraj karijerni profil i daj savete:
- Trenutne veštine: %s
- Interesi: %s
- Iskustvo: %s
- Ciljevi: %s

Odgovor mora biti u JSON formatu sa poljima:
{"analysis": "...", "recommendations": ["..."], "learningPath": [{"skill": "...", "priority": "high", "estimatedTime": "...", "resources": ["..."]}], "nextSteps": ["..."]}`,
		strings.Join(profile.CurrentSkills, ", "), strings.Join(profile.Interests, ", "), profile.Experience, profile.Goals)
}

// offlineAIClient answers without a network round trip. Replies are
// deterministic so tests can assert on them.
type offlineAIClient struct{}

func (c *offlineAIClient) ChatReply(history []model.ChatMessage, chatCtx ChatContext) (string, int, error) {
	subject := chatCtx.Subject
	if subject == "" {
		subject = "ovu oblast"
	}
	content := fmt.Sprintf("Odlično pitanje! Hajde da razložimo %s korak po korak.", subject)
	return content, 50, nil
}

func (c *offlineAIClient) GenerateProblem(params ProblemParams) (*GeneratedProblem, error) {
	if params.Type == model.MultipleChoice {
		return &GeneratedProblem{
			Title:         fmt.Sprintf("Osnovni problem iz %s", params.Subject),
			Description:   fmt.Sprintf("Edukativni problem za %s nivo", params.Difficulty),
			Question:      fmt.Sprintf("Koji je osnovni koncept u oblasti %s?", params.Subject),
			Options:       []string{"Opcija A", "Opcija B", "Opcija C", "Opcija D"},
			CorrectAnswer: "Opcija A",
			Explanation:   "Opcija A je tačna jer predstavlja osnovni koncept.",
			Hints:         []string{"Razmislite o osnovnim principima", "Pogledajte definicije"},
			EstimatedTime: 10,
		}, nil
	}
	return &GeneratedProblem{
		Title:         fmt.Sprintf("Analitički problem iz %s", params.Subject),
		Description:   fmt.Sprintf("Problem koji zahteva analizu za %s nivo", params.Difficulty),
		Question:      fmt.Sprintf("Objasnite kako funkcioniše %s u praksi.", params.Subject),
		CorrectAnswer: "Očekuje se detaljno objašnjenje.",
		Explanation:   "Ovo pitanje testira razumevanje koncepta.",
		Hints:         []string{"Koristite konkretne primere", "Povežite teoriju i praksu"},
		EstimatedTime: 15,
	}, nil
}

func (c *offlineAIClient) GenerateExam(params ExamParams) (*GeneratedExam, error) {
	n := params.NumberOfQuestions
	if n < 1 {
		n = 1
	}
	pointsPerQuestion := 100 / n

	questions := make([]GeneratedQuestion, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, GeneratedQuestion{
			Question:      fmt.Sprintf("Pitanje %d: Osnovni koncept iz %s", i, params.Subject),
			Type:          model.QuestionMultipleChoice,
			Options:       []string{"Opcija A", "Opcija B", "Opcija C", "Opcija D"},
			CorrectAnswer: "Opcija A",
			Points:        pointsPerQuestion,
		})
	}

	return &GeneratedExam{
		Title:             fmt.Sprintf("Simulacija ispita iz %s", params.Subject),
		Description:       fmt.Sprintf("Ispit za %s nivo sa %d pitanja", params.Difficulty, n),
		Questions:         questions,
		TotalPoints:       100,
		EstimatedDuration: params.Duration,
	}, nil
}

func (c *offlineAIClient) CareerAdvice(profile CareerProfile) (*CareerAdviceResult, error) {
	return &CareerAdviceResult{
		Analysis: fmt.Sprintf(
			"Na osnovu vaših veština (%s) i interesa (%s), vidim da imate solidnu osnovu. Vaše iskustvo u %s je odličan početak za postizanje cilja: %s.",
			strings.Join(profile.CurrentSkills, ", "), strings.Join(profile.Interests, ", "), profile.Experience, profile.Goals),
		Recommendations: []string{
			"Nastavite sa razvojem postojećih veština",
			"Istražite nove oblasti koje vas interesuju",
			"Povežite se sa profesionalcima iz vaše oblasti",
		},
		LearningPath: []LearningPathItem{
			{
				Skill:         "Napredne veštine",
				Priority:      "high",
				EstimatedTime: "3-6 meseci",
				Resources:     []string{"Online kursevi", "Praktični projekti", "Mentorstvo"},
			},
			{
				Skill:         "Soft skills",
				Priority:      "medium",
				EstimatedTime: "6-12 meseci",
				Resources:     []string{"Komunikacioni kursevi", "Timski projekti", "Volontiranje"},
			},
		},
		NextSteps: []string{
			"Kreirajte plan učenja",
			"Postavite kratkoročne ciljeve",
			"Pratite napredak",
		},
	}, nil
}
