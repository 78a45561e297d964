package domain

import "errors"

// Identity errors
var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Admission errors
var (
	ErrInvalidNameFormat   = errors.New("invalid name format")
	ErrCodeTooShort        = errors.New("code too short")
	ErrNameAlreadyApproved = errors.New("name already approved, please login")
	ErrRequestNotFound     = errors.New("request not found")
	ErrMissingPersonalCode = errors.New("request missing personal code")
	ErrApprovalRequired    = errors.New("approval_required")
	ErrRequestRejected     = errors.New("rejected")
)

// Content errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidParent   = errors.New("invalid parent comment")
	ErrInvalidVote     = errors.New("vote must be 1 or -1")
)

// QuizError reports which of the two admission quizzes failed.
type QuizError struct {
	Part    string // "quiz1" or "quiz2"
	Message string
}

func (e *QuizError) Error() string { return "quiz_failed" }

// AsQuizError unwraps err into a QuizError if it is one.
func AsQuizError(err error) (*QuizError, bool) {
	var qe *QuizError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
