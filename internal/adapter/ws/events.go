package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Event type constants for WebSocket messages.
const (
	EventSessionStatus    = "session.status"
	EventApprovalPending  = "session.approval_pending"
	EventSessionCompleted = "session.completed"
)

// SessionStatusEvent is broadcast when a session moves between stages.
type SessionStatusEvent struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Stage     string `json:"stage"`
	Error     string `json:"error,omitempty"`
}

// ApprovalPendingEvent is broadcast when plans are ready for a human
// decision. PlanCount tells the client how many alternatives to render.
type ApprovalPendingEvent struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	PlanCount int       `json:"plan_count"`
	Conflicts []string  `json:"conflicts,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionCompletedEvent is broadcast when execution finishes and the
// outcome has been recorded.
type SessionCompletedEvent struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	StepCount int    `json:"step_count"`
	Failed    int    `json:"failed"`
}

// BroadcastEvent is a convenience method that marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
