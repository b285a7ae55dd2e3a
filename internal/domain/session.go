package domain

import "time"

// SessionState is the persisted identity and start of the rolling session
// window. A zero StartedAt means no session has ever been recorded.
type SessionState struct {
	ID        string
	StartedAt time.Time
}
