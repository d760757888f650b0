package domain

import "time"

// AuthEventType classifies entries in the authentication audit trail.
type AuthEventType string

const (
	AuthEventRegistered     AuthEventType = "registered"
	AuthEventLoginSucceeded AuthEventType = "login_succeeded"
	AuthEventLoginFailed    AuthEventType = "login_failed"
)

// AuthEvent records one registration or login attempt.
type AuthEvent struct {
	Type       AuthEventType
	Email      string
	SubjectID  string // empty when the email did not resolve to a credential
	OccurredAt time.Time
}
