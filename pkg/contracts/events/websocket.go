// Package events contains the message contracts streamed to WebSocket
// clients while surveys are processed.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeStage reports one pipeline stage finishing or failing
	MessageTypeStage MessageType = "pipeline:stage"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// Stage statuses
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// StageEvent describes a pipeline run reaching, or failing, one stage.
type StageEvent struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"` // 0-100
	ElapsedMS int64     `json:"elapsed_ms"`
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Done reports whether the event ends its run.
func (e StageEvent) Done() bool {
	return e.Status == StatusFailed || e.Progress >= 100
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	BaseMessage
	Data struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Fatal   bool   `json:"fatal"`
	} `json:"data"`
}
