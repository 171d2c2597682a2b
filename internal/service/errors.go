package service

import "errors"

var (
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrExamNotFound      = errors.New("exam not found")
	ErrAttemptNotOwned   = errors.New("attempt does not belong to student")
	ErrAttemptNotOngoing = errors.New("attempt is not ongoing")
	ErrAlreadySubmitted  = errors.New("attempt already submitted")
)
