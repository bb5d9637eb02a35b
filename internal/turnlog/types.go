package turnlog

import (
	"context"
	"time"
)

// Turn records one processed dialog turn for auditing. Message bodies are
// deliberately not stored; the outcome and state pair is enough to trace a
// conversation without retaining member input.
type Turn struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	PlatformID  string    `json:"platform_id"`
	StateBefore string    `json:"state_before"`
	StateAfter  string    `json:"state_after"`
	Outcome     string    `json:"outcome"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists and retrieves the turn audit log.
type Store interface {
	Record(ctx context.Context, turn Turn) error
	Recent(ctx context.Context, limit int) ([]Turn, error)
	Close() error
}
