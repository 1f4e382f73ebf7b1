package portal

import (
	"errors"
	"fmt"
)

// NetworkError indicates that a request could not complete at all: DNS
// failure, refused connection, timeout, cancelled context.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err (or any error in its chain) is a
// NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ServerError indicates a completed request that the backend rejected with
// a non-2xx status. Message carries the backend's human-readable detail.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// IsServerError reports whether err (or any error in its chain) is a
// ServerError.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// AuthError indicates that the stored session token was rejected (401).
// The user must sign in to the portal again.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// InvalidSurveyError indicates that a fetched survey is malformed and cannot
// be taken: no questions, duplicate question ids, or a multiple_choice
// question without options.
type InvalidSurveyError struct {
	SurveyID string
	Reason   string
}

func (e *InvalidSurveyError) Error() string {
	return fmt.Sprintf("invalid survey %s: %s", e.SurveyID, e.Reason)
}

// IsInvalidSurvey reports whether err (or any error in its chain) is an
// InvalidSurveyError.
func IsInvalidSurvey(err error) bool {
	var ie *InvalidSurveyError
	return errors.As(err, &ie)
}
