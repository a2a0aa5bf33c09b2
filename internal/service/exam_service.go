package service

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/util"
	"strings"
	"time"
)

type ExamService struct {
	exams repository.ExamRepository
	ai    AIClient
}

func NewExamService(exams repository.ExamRepository, ai AIClient) *ExamService {
	return &ExamService{exams: exams, ai: ai}
}

// ExamView is the exam as test takers see it: no correct answers, no
// explanations, no other users' submissions.
type ExamView struct {
	ID                uint               `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Subject           string             `json:"subject"`
	Difficulty        model.Difficulty   `json:"difficulty"`
	TotalPoints       int                `json:"totalPoints"`
	EstimatedDuration int                `json:"estimatedDuration"`
	Tags              model.StringList   `json:"tags"`
	AIGenerated       bool               `json:"aiGenerated"`
	TimesTaken        int                `json:"timesTaken"`
	AverageScore      float64            `json:"averageScore"`
	PassingScore      float64            `json:"passingScore"`
	Questions         []ExamQuestionView `json:"questions"`
	CreatedAt         time.Time          `json:"createdAt"`
}

type ExamQuestionView struct {
	Question string             `json:"question"`
	Type     model.QuestionType `json:"type"`
	Options  model.StringList   `json:"options,omitempty"`
	Points   int                `json:"points"`
	Order    int                `json:"order"`
}

func NewExamView(exam *model.Exam) *ExamView {
	view := &ExamView{
		ID:                exam.ID,
		Title:             exam.Title,
		Description:       exam.Description,
		Subject:           exam.Subject,
		Difficulty:        exam.Difficulty,
		TotalPoints:       exam.TotalPoints,
		EstimatedDuration: exam.EstimatedDuration,
		Tags:              exam.Tags,
		AIGenerated:       exam.AIGenerated,
		TimesTaken:        exam.TimesTaken,
		AverageScore:      exam.AverageScore,
		PassingScore:      exam.PassingScore,
		CreatedAt:         exam.CreatedAt,
	}
	for _, q := range exam.Questions {
		view.Questions = append(view.Questions, ExamQuestionView{
			Question: q.Question,
			Type:     q.Type,
			Options:  q.Options,
			Points:   q.Points,
			Order:    q.Order,
		})
	}
	return view
}

// GenerateExam asks the AI for a question set and persists the exam.
func (s *ExamService) GenerateExam(userID uint, params ExamParams) (*model.Exam, error) {
	if params.Difficulty == "" {
		params.Difficulty = model.Beginner
	}
	if params.NumberOfQuestions < 1 {
		params.NumberOfQuestions = 10
	}
	if params.Duration < 1 {
		params.Duration = 60
	}

	generated, err := s.ai.GenerateExam(params)
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{
		Title:              generated.Title,
		Description:        generated.Description,
		Subject:            params.Subject,
		Difficulty:         params.Difficulty,
		TotalPoints:        generated.TotalPoints,
		EstimatedDuration:  generated.EstimatedDuration,
		LearningObjectives: model.StringList{},
		Tags:               model.StringList{params.Subject, string(params.Difficulty), "exam"},
		AIGenerated:        true,
		PassingScore:       model.DefaultPassingScore,
		CreatedBy:          userID,
		IsActive:           true,
	}
	for i, q := range generated.Questions {
		exam.Questions = append(exam.Questions, model.ExamQuestion{
			Question:      q.Question,
			Type:          q.Type,
			Options:       model.StringList(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			Explanation:   q.Explanation,
			Order:         i,
		})
	}

	if err := s.exams.CreateExam(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) ListExams(filter repository.ExamFilter, page, limit int) ([]ExamView, int64, error) {
	exams, total, err := s.exams.ListExams(filter, page, limit)
	if err != nil {
		return nil, 0, err
	}
	views := make([]ExamView, 0, len(exams))
	for i := range exams {
		views = append(views, *NewExamView(&exams[i]))
	}
	return views, total, nil
}

func (s *ExamService) GetExam(id uint) (*ExamView, error) {
	exam, err := s.exams.FindExam(id)
	if err != nil {
		return nil, err
	}
	return NewExamView(exam), nil
}

type SubmitAnswer struct {
	Answer string `json:"answer"`
}

type SubmitResult struct {
	Score            float64                 `json:"score"`
	TotalPoints      int                     `json:"totalPoints"`
	PointsEarned     int                     `json:"pointsEarned"`
	Passed           bool                    `json:"passed"`
	EvaluatedAnswers []model.EvaluatedAnswer `json:"evaluatedAnswers"`
}

// SubmitExam grades the answers against the question set and records
// the submission. Each user gets exactly one attempt per exam.
func (s *ExamService) SubmitExam(userID, examID uint, answers []SubmitAnswer, timeSpent int) (*SubmitResult, error) {
	exam, err := s.exams.FindExam(examID)
	if err != nil {
		return nil, err
	}

	if exam.SubmissionFor(userID) != nil {
		return nil, util.ErrAlreadySubmitted
	}

	var evaluated []model.EvaluatedAnswer
	pointsEarned := 0
	for i, answer := range answers {
		if i >= len(exam.Questions) {
			break
		}
		question := exam.Questions[i]
		isCorrect := strings.TrimSpace(strings.ToLower(question.CorrectAnswer)) ==
			strings.TrimSpace(strings.ToLower(answer.Answer))
		earned := 0
		if isCorrect {
			earned = question.Points
		}
		pointsEarned += earned
		evaluated = append(evaluated, model.EvaluatedAnswer{
			QuestionIndex: i,
			Answer:        answer.Answer,
			IsCorrect:     isCorrect,
			PointsEarned:  earned,
		})
	}

	score := 0.0
	if exam.TotalPoints > 0 {
		score = float64(pointsEarned) / float64(exam.TotalPoints) * 100
	}

	submission := model.ExamSubmission{
		ExamID:       exam.ID,
		UserID:       userID,
		Answers:      model.EvaluatedAnswerList(evaluated),
		PointsEarned: pointsEarned,
		Score:        score,
		TimeSpent:    timeSpent,
		SubmittedAt:  time.Now(),
	}
	if err := s.exams.CreateSubmission(&submission); err != nil {
		return nil, err
	}

	exam.AddSubmission(submission)
	if err := s.exams.UpdateExamStats(exam); err != nil {
		return nil, err
	}

	return &SubmitResult{
		Score:            score,
		TotalPoints:      exam.TotalPoints,
		PointsEarned:     pointsEarned,
		Passed:           exam.IsPassed(score),
		EvaluatedAnswers: evaluated,
	}, nil
}

// Results returns the caller's own submission.
func (s *ExamService) Results(userID, examID uint) (*model.ExamSubmission, error) {
	exam, err := s.exams.FindExam(examID)
	if err != nil {
		return nil, err
	}
	submission := exam.SubmissionFor(userID)
	if submission == nil {
		return nil, util.ErrSubmissionNotFound
	}
	return submission, nil
}

// Stats is restricted to the exam's creator and admins.
func (s *ExamService) Stats(user *model.User, examID uint) (*model.ExamStats, error) {
	exam, err := s.exams.FindExam(examID)
	if err != nil {
		return nil, err
	}
	if exam.CreatedBy != user.ID && user.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	stats := exam.Stats()
	return &stats, nil
}
