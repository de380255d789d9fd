package service

import "errors"

// Reference-integrity failures are surfaced distinctly so the UI can
// report each one individually. ErrSubtopicComplete is not a failure: it
// is the terminal success signal of an assignment's question pool.
var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrTopicNotFound      = errors.New("topic not found")
	ErrNoSubtopic         = errors.New("assignment has no sub-topic")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrOptionNotFound     = errors.New("option not found on question")
	ErrNotEnrolled        = errors.New("student not enrolled in assignment")
	ErrSubtopicComplete   = errors.New("all questions in sub-topic answered")
	ErrSessionNotFound    = errors.New("quiz session not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
)
