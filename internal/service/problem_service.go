package service

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/repository"
	"acaia_backend/internal/util"
	"strings"
)

type ProblemService struct {
	problems repository.ProblemRepository
	ai       AIClient
}

func NewProblemService(problems repository.ProblemRepository, ai AIClient) *ProblemService {
	return &ProblemService{problems: problems, ai: ai}
}

// GenerateProblem asks the AI for a problem and persists it.
func (s *ProblemService) GenerateProblem(userID uint, params ProblemParams) (*model.Problem, error) {
	if params.Difficulty == "" {
		params.Difficulty = model.Beginner
	}
	if params.Type == "" {
		params.Type = model.MultipleChoice
	}
	if params.LearningObjectives == nil {
		params.LearningObjectives = []string{}
	}

	generated, err := s.ai.GenerateProblem(params)
	if err != nil {
		return nil, err
	}

	problem := &model.Problem{
		Title:       generated.Title,
		Description: generated.Description,
		Subject:     params.Subject,
		Difficulty:  params.Difficulty,
		Type:        params.Type,
		Content: model.ProblemContent{
			Question:      generated.Question,
			Options:       model.StringList(generated.Options),
			CorrectAnswer: generated.CorrectAnswer,
			Explanation:   generated.Explanation,
			Hints:         model.StringList(generated.Hints),
		},
		LearningObjectives: model.StringList(params.LearningObjectives),
		EstimatedTime:      generated.EstimatedTime,
		Tags:               model.StringList{params.Subject, string(params.Difficulty), string(params.Type)},
		AIGenerated:        true,
		CreatedBy:          userID,
		IsActive:           true,
	}

	if err := s.problems.CreateProblem(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

type CreateProblemInput struct {
	Title              string
	Description        string
	Subject            string
	Difficulty         model.Difficulty
	Type               model.ProblemType
	Content            model.ProblemContent
	LearningObjectives []string
	Tags               []string
}

// CreateProblem stores a hand-authored problem.
func (s *ProblemService) CreateProblem(userID uint, in CreateProblemInput) (*model.Problem, error) {
	tags := append(append([]string(nil), in.Tags...), in.Subject, string(in.Difficulty), string(in.Type))

	problem := &model.Problem{
		Title:              in.Title,
		Description:        in.Description,
		Subject:            in.Subject,
		Difficulty:         in.Difficulty,
		Type:               in.Type,
		Content:            in.Content,
		LearningObjectives: model.StringList(in.LearningObjectives),
		EstimatedTime:      15,
		Tags:               model.StringList(tags),
		CreatedBy:          userID,
		IsActive:           true,
	}

	if err := s.problems.CreateProblem(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

func (s *ProblemService) ListProblems(filter repository.ProblemFilter, page, limit int) ([]model.Problem, int64, error) {
	return s.problems.ListProblems(filter, page, limit)
}

func (s *ProblemService) GetProblem(id uint) (*model.Problem, error) {
	return s.problems.FindProblem(id)
}

type SolveResult struct {
	IsCorrect     bool     `json:"isCorrect"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Hints         []string `json:"hints"`
	Stats         struct {
		TimesAttempted int     `json:"timesAttempted"`
		SuccessRate    float64 `json:"successRate"`
	} `json:"stats"`
}

// SolveProblem grades the answer case-insensitively and folds the
// attempt into the problem's running statistics.
func (s *ProblemService) SolveProblem(id uint, answer string) (*SolveResult, error) {
	problem, err := s.problems.FindProblem(id)
	if err != nil {
		return nil, err
	}

	isCorrect := strings.TrimSpace(strings.ToLower(problem.Content.CorrectAnswer)) ==
		strings.TrimSpace(strings.ToLower(answer))

	problem.UpdateStats(isCorrect)
	if err := s.problems.UpdateProblem(problem); err != nil {
		return nil, err
	}

	result := &SolveResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: problem.Content.CorrectAnswer,
		Explanation:   problem.Content.Explanation,
		Hints:         problem.Content.Hints,
	}
	result.Stats.TimesAttempted = problem.TimesAttempted
	result.Stats.SuccessRate = problem.SuccessRate
	return result, nil
}

// RateProblem folds a 1-5 rating into the problem's average.
func (s *ProblemService) RateProblem(id uint, rating float64) (float64, error) {
	if rating < 1 || rating > 5 {
		return 0, util.ErrInvalidRating
	}

	problem, err := s.problems.FindProblem(id)
	if err != nil {
		return 0, err
	}

	problem.AddRating(rating)
	if err := s.problems.UpdateProblem(problem); err != nil {
		return 0, err
	}
	return problem.Rating, nil
}
