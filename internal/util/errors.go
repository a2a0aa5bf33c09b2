package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrChatNotFound       = errors.New("chat not found")
	ErrProblemNotFound    = errors.New("problem not found")
	ErrExamNotFound       = errors.New("exam not found")
	ErrAlreadySubmitted   = errors.New("exam already submitted")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrCareerPathNotFound = errors.New("career path not found")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrAIService          = errors.New("AI service error")
)
