package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Delivery pairs an outcome with the room it belongs to so transports can
// route it back to the right conversation.
type Delivery struct {
	RoomID  uuid.UUID `json:"room_id"`
	Outcome Outcome   `json:"outcome"`
}

// MessageBus is the in-process queue between transports and the agent loop.
type MessageBus struct {
	inbound  chan Message
	outbound chan Delivery
}

func NewMessageBus() *MessageBus {
	return &MessageBus{
		inbound:  make(chan Message, 100),
		outbound: make(chan Delivery, 100),
	}
}

func (mb *MessageBus) PublishInbound(msg Message) {
	mb.inbound <- msg
}

// ConsumeInbound blocks until a message is available or the context is done.
// The second return is false when the poll timed out or the context ended.
func (mb *MessageBus) ConsumeInbound(ctx context.Context) (Message, bool) {
	select {
	case <-ctx.Done():
		return Message{}, false
	case msg := <-mb.inbound:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return Message{}, false
	}
}

func (mb *MessageBus) PublishOutbound(d Delivery) {
	mb.outbound <- d
}

func (mb *MessageBus) ConsumeOutbound(ctx context.Context) (Delivery, bool) {
	select {
	case <-ctx.Done():
		return Delivery{}, false
	case d := <-mb.outbound:
		return d, true
	case <-time.After(100 * time.Millisecond):
		return Delivery{}, false
	}
}
