package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionOpenEnded      QuestionType = "open-ended"
)

const DefaultPassingScore = 60.0

// Exam is a timed collection of questions with embedded submissions.
// swagger:model Exam
type Exam struct {
	BaseModel
	Title             string     `gorm:"size:200;not null" json:"title"`
	Description       string     `gorm:"type:text;not null" json:"description"`
	Subject           string     `gorm:"size:50;not null;index:idx_exam_subject_difficulty" json:"subject"`
	Difficulty        Difficulty `gorm:"type:enum('beginner','intermediate','advanced');not null;index:idx_exam_subject_difficulty" json:"difficulty"`
	TotalPoints       int        `gorm:"not null" json:"totalPoints"`
	EstimatedDuration int        `gorm:"not null" json:"estimatedDuration"`

	LearningObjectives StringList `gorm:"type:json" json:"learningObjectives"`
	Tags               StringList `gorm:"type:json" json:"tags"`
	AIGenerated        bool       `gorm:"default:false" json:"aiGenerated"`
	TimesTaken         int        `gorm:"default:0" json:"timesTaken"`
	AverageScore       float64    `gorm:"default:0" json:"averageScore"`
	PassingScore       float64    `gorm:"default:60" json:"passingScore"`

	CreatedBy uint `gorm:"index" json:"createdBy"`
	IsActive  bool `gorm:"default:true" json:"isActive"`

	Questions   []ExamQuestion   `gorm:"foreignKey:ExamID" json:"questions"`
	Submissions []ExamSubmission `gorm:"foreignKey:ExamID" json:"submissions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

func (e *Exam) QuestionCount() int {
	return len(e.Questions)
}

// SubmissionFor scans the loaded submissions for the given user.
func (e *Exam) SubmissionFor(userID uint) *ExamSubmission {
	for i := range e.Submissions {
		if e.Submissions[i].UserID == userID {
			return &e.Submissions[i]
		}
	}
	return nil
}

// AddSubmission appends a submission and recomputes the running average
// from the full submission list, not incrementally.
func (e *Exam) AddSubmission(sub ExamSubmission) {
	e.Submissions = append(e.Submissions, sub)
	e.TimesTaken++

	var total float64
	for i := range e.Submissions {
		total += e.Submissions[i].Score
	}
	e.AverageScore = total / float64(len(e.Submissions))
}

func (e *Exam) IsPassed(score float64) bool {
	return score >= e.PassingScore
}

// ExamStats aggregates the submission list.
type ExamStats struct {
	TotalSubmissions  int     `json:"totalSubmissions"`
	PassedSubmissions int     `json:"passedSubmissions"`
	PassRate          float64 `json:"passRate"`
	AverageScore      float64 `json:"averageScore"`
	AverageTimeSpent  float64 `json:"averageTimeSpent"`
}

func (e *Exam) Stats() ExamStats {
	stats := ExamStats{
		TotalSubmissions: len(e.Submissions),
		AverageScore:     e.AverageScore,
	}
	if stats.TotalSubmissions == 0 {
		return stats
	}

	var timeSpent float64
	for i := range e.Submissions {
		if e.IsPassed(e.Submissions[i].Score) {
			stats.PassedSubmissions++
		}
		timeSpent += float64(e.Submissions[i].TimeSpent)
	}
	stats.PassRate = float64(stats.PassedSubmissions) / float64(stats.TotalSubmissions) * 100
	stats.AverageTimeSpent = timeSpent / float64(stats.TotalSubmissions)
	return stats
}

// ExamQuestion is one ordered question of an exam.
// swagger:model ExamQuestion
type ExamQuestion struct {
	BaseModel
	ExamID        uint         `gorm:"index;not null" json:"examId"`
	Question      string       `gorm:"type:text;not null" json:"question"`
	Type          QuestionType `gorm:"type:enum('multiple-choice','open-ended');not null" json:"type"`
	Options       StringList   `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer string       `gorm:"type:text" json:"correctAnswer,omitempty"`
	Points        int          `gorm:"not null" json:"points"`
	Explanation   string       `gorm:"type:text" json:"explanation,omitempty"`
	Order         int          `gorm:"default:0" json:"order"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// EvaluatedAnswer is one graded answer inside a submission.
type EvaluatedAnswer struct {
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
	IsCorrect     bool   `json:"isCorrect"`
	PointsEarned  int    `json:"pointsEarned"`
}

type EvaluatedAnswerList []EvaluatedAnswer

func (l EvaluatedAnswerList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *EvaluatedAnswerList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// ExamSubmission is one user's graded attempt at an exam. Immutable once
// written; the composite unique index blocks a second row for the same
// user even under concurrent submits.
// swagger:model ExamSubmission
type ExamSubmission struct {
	BaseModel
	ExamID       uint                `gorm:"uniqueIndex:idx_exam_user;not null" json:"examId"`
	UserID       uint                `gorm:"uniqueIndex:idx_exam_user;not null" json:"userId"`
	Answers      EvaluatedAnswerList `gorm:"type:json" json:"answers"`
	PointsEarned int                 `gorm:"not null" json:"pointsEarned"`
	Score        float64             `gorm:"not null" json:"score"`
	TimeSpent    int                 `gorm:"not null" json:"timeSpent"`
	SubmittedAt  time.Time           `json:"submittedAt"`
}

func (ExamSubmission) TableName() string {
	return "exam_submissions"
}
