package bus

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// TestMessageBus_PublishConsume verifies inbound messages round-trip
func TestMessageBus_PublishConsume(t *testing.T) {
	mb := NewMessageBus()
	msg := NewMessage(RoomID("room"), uuid.New(), uuid.New(), Content{Text: "hello"})

	mb.PublishInbound(msg)

	got, ok := mb.ConsumeInbound(context.Background())
	if !ok {
		t.Fatal("expected a message")
	}
	if got.ID != msg.ID || got.Content.Text != "hello" {
		t.Errorf("unexpected message: %+v", got)
	}
}

// TestMessageBus_ConsumeTimesOut verifies an empty bus returns false
func TestMessageBus_ConsumeTimesOut(t *testing.T) {
	mb := NewMessageBus()

	if _, ok := mb.ConsumeInbound(context.Background()); ok {
		t.Error("expected timeout on empty bus")
	}
}

// TestMessageBus_ConsumeCancelled verifies a cancelled context returns false
func TestMessageBus_ConsumeCancelled(t *testing.T) {
	mb := NewMessageBus()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := mb.ConsumeInbound(ctx); ok {
		t.Error("expected false on cancelled context")
	}
}

// TestMessageBus_OutboundRoundTrip verifies deliveries round-trip
func TestMessageBus_OutboundRoundTrip(t *testing.T) {
	mb := NewMessageBus()
	room := RoomID("room")

	mb.PublishOutbound(Delivery{RoomID: room, Outcome: Outcome{Text: "done", Success: true}})

	got, ok := mb.ConsumeOutbound(context.Background())
	if !ok {
		t.Fatal("expected a delivery")
	}
	if got.RoomID != room || got.Outcome.Text != "done" {
		t.Errorf("unexpected delivery: %+v", got)
	}
}

// TestRoomID_Deterministic verifies the same key always maps to the same room
func TestRoomID_Deterministic(t *testing.T) {
	if RoomID("twitter_generate_room-sage") != RoomID("twitter_generate_room-sage") {
		t.Error("RoomID should be stable for a key")
	}
	if RoomID("a") == RoomID("b") {
		t.Error("different keys should map to different rooms")
	}
}

// TestOutcome_Noop verifies the no-op outcome is successful and empty
func TestOutcome_Noop(t *testing.T) {
	o := Noop()
	if !o.Success || !o.IsNoop() {
		t.Errorf("unexpected no-op outcome: %+v", o)
	}
}

// TestOutcome_Failure verifies failures carry text and machine error
func TestOutcome_Failure(t *testing.T) {
	o := Failure("something broke", "token not found")
	if o.Success {
		t.Error("failure outcome should not be successful")
	}
	if o.Content == nil || o.Content.Error != "token not found" {
		t.Errorf("failure should carry the machine error: %+v", o.Content)
	}
	if o.IsNoop() {
		t.Error("failure is not a no-op")
	}
}
