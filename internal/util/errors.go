package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrInvalidAnswers      = errors.New("invalid quiz answers")
	ErrInvalidCatalog      = errors.New("invalid catalog")
)
