package utils

import "github.com/google/uuid"

// NewSessionID returns a random identifier used to correlate one
// session's log lines and audit records.
func NewSessionID() string {
	return uuid.NewString()
}
