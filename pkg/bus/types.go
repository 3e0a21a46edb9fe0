package bus

import (
	"time"

	"github.com/google/uuid"
)

// Content is the payload of an inbound message. Action carries the intent
// signal used by the dispatcher for exact-match capability selection.
type Content struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
	Source string `json:"source,omitempty"`
}

// Message is an inbound conversation event. Immutable once created.
type Message struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	UserID    uuid.UUID `json:"user_id"`
	AgentID   uuid.UUID `json:"agent_id"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// OutcomeContent carries the machine-readable error of a failed run.
type OutcomeContent struct {
	Error string `json:"error,omitempty"`
}

// WebAction is a structured next-step descriptor for a client UI. The core
// never interprets it.
type WebAction struct {
	Step    string      `json:"step"`
	Details interface{} `json:"details"`
}

// Outcome is the normalized unit of user-visible result produced by a
// capability or evaluator run.
type Outcome struct {
	Text      string          `json:"text"`
	Content   *OutcomeContent `json:"content,omitempty"`
	WebAction *WebAction      `json:"webAction,omitempty"`
	Success   bool            `json:"success"`
}

// Noop is the outcome of a dispatch where no capability validated. It is not
// an error.
func Noop() Outcome {
	return Outcome{Success: true}
}

// Failure builds a normalized failure outcome with a user-facing text and a
// machine-readable error.
func Failure(text, errMsg string) Outcome {
	return Outcome{
		Text:    text,
		Content: &OutcomeContent{Error: errMsg},
	}
}

// IsNoop reports whether o carries neither text nor payload.
func (o Outcome) IsNoop() bool {
	return o.Success && o.Text == "" && o.Content == nil && o.WebAction == nil
}

// RoomID derives a stable room identifier from a human-readable key.
func RoomID(key string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
}

// NewMessage stamps a fresh message with an id and creation time.
func NewMessage(roomID, userID, agentID uuid.UUID, content Content) Message {
	return Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		UserID:    userID,
		AgentID:   agentID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
