package sync

import "encoding/json"

type Message struct {
	Type    string          `json:"type"`
	BoardID string          `json:"boardId,omitempty"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"

	// Autosave
	TypeSaveSubmit = "save.submit"
	TypeSaveAck    = "save.ack"
	TypeSaveNack   = "save.nack"

	TypeError = "error"
)

// SaveSubmitPayload carries the full document snapshot plus an optional
// rendered thumbnail. The client sends the complete state on every
// submit; the server persists the most recent one per interval.
type SaveSubmitPayload struct {
	Document  json.RawMessage `json:"document"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	// Force bypasses the empty-document guard, for an explicit clear.
	Force bool `json:"force,omitempty"`
}

type SaveAckPayload struct {
	Seq     int64  `json:"seq"`
	SavedAt string `json:"savedAt"`
}

type SaveNackPayload struct {
	Seq    int64  `json:"seq"`
	Reason string `json:"reason"`
}

type WelcomePayload struct {
	BoardID string `json:"boardId"`
}
