package repository

import (
	"strings"

	"acaia_backend/internal/model"
)

// duplicateEntry reports whether err is a MySQL unique index violation
// (error 1062). gorm returns the driver error untranslated.
func duplicateEntry(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}

// The store backing these interfaces is chosen once at startup: MySQL when
// a database is configured and reachable, the in-memory store otherwise.
// Controllers and services never branch on the backend. Method names are
// entity-prefixed so a single store type can implement every interface.

type UserRepository interface {
	CreateUser(user *model.User) error
	FindUserByID(id uint) (*model.User, error)
	FindUserByEmail(email string) (*model.User, error)
	UpdateUser(user *model.User) error
}

type ChatRepository interface {
	CreateChat(chat *model.Chat) error
	// FindChat returns the chat only when it is active and owned by userID,
	// with messages ordered oldest first.
	FindChat(userID, chatID uint) (*model.Chat, error)
	// ListChats returns active chats ordered by most recent activity.
	ListChats(userID uint, page, limit int) ([]model.Chat, int64, error)
	UpdateChat(chat *model.Chat) error
	// AddMessages appends messages and persists the chat's token counter
	// and last-activity timestamp.
	AddMessages(chat *model.Chat, messages []model.ChatMessage) error
	SoftDeleteChat(userID, chatID uint) error
}

type ProblemFilter struct {
	Subject    string
	Difficulty model.Difficulty
	Type       model.ProblemType
}

type ProblemRepository interface {
	CreateProblem(problem *model.Problem) error
	FindProblem(id uint) (*model.Problem, error)
	ListProblems(filter ProblemFilter, page, limit int) ([]model.Problem, int64, error)
	UpdateProblem(problem *model.Problem) error
}

type ExamFilter struct {
	Subject    string
	Difficulty model.Difficulty
}

type ExamRepository interface {
	CreateExam(exam *model.Exam) error
	FindExam(id uint) (*model.Exam, error)
	ListExams(filter ExamFilter, page, limit int) ([]model.Exam, int64, error)
	// UpdateExamStats persists the exam's scalar statistics fields.
	UpdateExamStats(exam *model.Exam) error
	// CreateSubmission inserts a submission row. A second submission by the
	// same user for the same exam fails with util.ErrAlreadySubmitted.
	CreateSubmission(sub *model.ExamSubmission) error
}
