package ldmcsv

import "time"

// ErrorClassifier separates transient backend failures from fatal ones.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy decides how long to wait before retry number attempt
// (zero-based) and how many retries are allowed. MaxAttempts of -1 means
// no limit.
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
	MaxAttempts() int
}
