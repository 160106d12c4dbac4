package services

import "errors"

// Sentinel errors. Services wrap them in a utils.AppError carrying the HTTP
// code, so callers can match with errors.Is and still respond directly.
var (
	ErrNoCourses           = errors.New("no course ids given")
	ErrCourseNotFound      = errors.New("course not found")
	ErrAlreadyEnrolled     = errors.New("student is already enrolled")
	ErrAlreadyExists       = errors.New("course progress already exists")
	ErrProgressNotFound    = errors.New("course progress not found")
	ErrUnitNotFound        = errors.New("unit does not belong to the course")
	ErrAlreadyCompleted    = errors.New("unit already completed")
	ErrMissingCallbackData = errors.New("payment callback data missing")
	ErrSignatureMismatch   = errors.New("payment signature mismatch")
	ErrOrderMismatch       = errors.New("payment callback does not match the order")
	ErrPaymentReplayed     = errors.New("payment already recorded")
	ErrUserNotFound        = errors.New("user not found")
)
