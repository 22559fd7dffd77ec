package domain

import "time"

type SessionEventType string

const (
	EventEntryCreated  SessionEventType = "session_entry_created"
	EventExitCompleted SessionEventType = "session_exit_completed"
)

// SessionEventNotification được broadcast qua WebSocket cho các màn hình
// dashboard đang theo dõi bãi xe.
type SessionEventNotification struct {
	Type      SessionEventType `json:"type"`
	LotID     int              `json:"lot_id"`
	Code      string           `json:"code"`
	Session   *ParkingSession  `json:"session,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
