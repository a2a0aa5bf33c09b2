package model

import (
	"database/sql/driver"
	"encoding/json"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

type ProblemType string

const (
	MultipleChoice ProblemType = "multiple-choice"
	OpenEnded      ProblemType = "open-ended"
	Coding         ProblemType = "coding"
	Essay          ProblemType = "essay"
)

// TestCase belongs to coding problems.
type TestCase struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Description string `json:"description,omitempty"`
}

type TestCaseList []TestCase

func (l TestCaseList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *TestCaseList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// ProblemContent is the question body of a problem.
type ProblemContent struct {
	Question      string       `gorm:"type:text;not null" json:"question"`
	Options       StringList   `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer string       `gorm:"type:text" json:"correctAnswer,omitempty"`
	Explanation   string       `gorm:"type:text" json:"explanation,omitempty"`
	Hints         StringList   `gorm:"type:json" json:"hints,omitempty"`
	CodeTemplate  string       `gorm:"type:text" json:"codeTemplate,omitempty"`
	TestCases     TestCaseList `gorm:"type:json" json:"testCases,omitempty"`
}

// Problem is a single practice exercise.
// swagger:model Problem
type Problem struct {
	BaseModel
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Subject     string         `gorm:"size:50;not null;index:idx_subject_difficulty" json:"subject"`
	Difficulty  Difficulty     `gorm:"type:enum('beginner','intermediate','advanced');not null;index:idx_subject_difficulty" json:"difficulty"`
	Type        ProblemType    `gorm:"type:enum('multiple-choice','open-ended','coding','essay');not null" json:"type"`
	Content     ProblemContent `gorm:"embedded;embeddedPrefix:content_" json:"content"`

	LearningObjectives StringList `gorm:"type:json" json:"learningObjectives"`
	EstimatedTime      int        `gorm:"default:15" json:"estimatedTime"`
	Tags               StringList `gorm:"type:json" json:"tags"`
	AIGenerated        bool       `gorm:"default:false" json:"aiGenerated"`
	Rating             float64    `gorm:"default:0" json:"rating"`
	TimesAttempted     int        `gorm:"default:0" json:"timesAttempted"`
	SuccessRate        float64    `gorm:"default:0" json:"successRate"`

	CreatedBy uint `gorm:"index" json:"createdBy"`
	IsActive  bool `gorm:"default:true" json:"isActive"`
}

func (Problem) TableName() string {
	return "problems"
}

// Complexity derives a difficulty weight scaled by estimated time.
func (p *Problem) Complexity() float64 {
	base := 3.0
	switch p.Difficulty {
	case Beginner:
		base = 1.0
	case Intermediate:
		base = 2.0
	}
	return base * (float64(p.EstimatedTime) / 15.0)
}

// UpdateStats records one solve attempt. The success rate stays on a
// 0-100 scale: each attempt contributes 100 or 0 points averaged over
// every attempt to date.
func (p *Problem) UpdateStats(isCorrect bool) {
	p.TimesAttempted++
	n := float64(p.TimesAttempted)
	current := p.SuccessRate * (n - 1)
	if isCorrect {
		p.SuccessRate = (current + 100) / n
	} else {
		p.SuccessRate = current / n
	}
}

// AddRating folds a new rating into the running mean. The denominator is
// the solve counter, not an independent rating counter, so a rating that
// lands after k solves carries weight 1/(k+1).
func (p *Problem) AddRating(rating float64) {
	total := p.Rating * float64(p.TimesAttempted)
	p.Rating = (total + rating) / float64(p.TimesAttempted+1)
}
