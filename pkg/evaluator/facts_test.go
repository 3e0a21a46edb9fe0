package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/config"
	"github.com/seilorhq/faithagent/pkg/memory"
	"github.com/seilorhq/faithagent/pkg/providers"
	"github.com/seilorhq/faithagent/pkg/state"
)

type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) GenerateText(ctx context.Context, prompt string, tier providers.Tier, stop []string) (string, error) {
	s.calls++
	return s.response, s.err
}

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.NewStore("", nil, 0.95)
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func factsConfig(conversationLength int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Agent.ConversationLength = conversationLength
	cfg.Evaluator.FactPacingMS = 10
	return cfg
}

// TestFilterClaims verifies only fresh fact-typed claims survive
func TestFilterClaims(t *testing.T) {
	claims := []Claim{
		{Claim: "works at a bakery", Type: "fact"},
		{Claim: "feels happy today", Type: "status"},
		{Claim: "thinks go is great", Type: "opinion"},
		{Claim: "lives in Lisbon", Type: "fact", InBio: true},
		{Claim: "has two cats", Type: "fact", AlreadyKnown: true},
		{Claim: "   ", Type: "fact"},
	}

	kept := FilterClaims(claims)
	if len(kept) != 1 {
		t.Fatalf("expected 1 kept claim, got %d", len(kept))
	}
	if kept[0].Claim != "works at a bakery" {
		t.Errorf("unexpected claim kept: %q", kept[0].Claim)
	}
}

// TestFactEvaluator_TriggerPolicy verifies the half-conversation modulo trigger
func TestFactEvaluator_TriggerPolicy(t *testing.T) {
	store := newTestStore(t)
	ev := NewFactEvaluator(factsConfig(4), &stubClient{}, store)

	roomID := bus.RoomID("trigger-room")
	agentID := uuid.New()
	msg := bus.NewMessage(roomID, uuid.New(), agentID, bus.Content{Text: "hello"})

	// reflectionCount is ceil(4/2) = 2: trigger at counts 0, 2, 4, ...
	for i, want := range []bool{true, false, true, false, true} {
		if got := ev.Validate(context.Background(), msg); got != want {
			t.Errorf("count %d: expected trigger=%v, got %v", i, want, got)
		}
		if err := store.AddMessage(context.Background(),
			bus.NewMessage(roomID, uuid.New(), agentID, bus.Content{Text: "m"})); err != nil {
			t.Fatal(err)
		}
	}
}

// TestFactEvaluator_ZeroConversationLengthNeverTriggers verifies the modulo guard
func TestFactEvaluator_ZeroConversationLengthNeverTriggers(t *testing.T) {
	store := newTestStore(t)
	ev := NewFactEvaluator(factsConfig(0), &stubClient{}, store)

	msg := bus.NewMessage(bus.RoomID("room"), uuid.New(), uuid.New(), bus.Content{Text: "hi"})
	if ev.Validate(context.Background(), msg) {
		t.Error("non-positive reflection count must never trigger")
	}
}

// TestFactEvaluator_UnparseableOutputIsSoft verifies garbage output yields zero facts
func TestFactEvaluator_UnparseableOutputIsSoft(t *testing.T) {
	store := newTestStore(t)
	client := &stubClient{response: "I refuse to emit JSON."}
	ev := NewFactEvaluator(factsConfig(4), client, store)

	msg := bus.NewMessage(bus.RoomID("soft-room"), uuid.New(), uuid.New(), bus.Content{Text: "hi"})
	if err := ev.Evaluate(context.Background(), msg, state.State{}); err != nil {
		t.Fatalf("unparseable output should not be an error: %v", err)
	}

	count, err := store.CountFacts(context.Background(), msg.RoomID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected no facts, got %d", count)
	}
}

// TestFactEvaluator_PersistsFilteredClaims verifies surviving claims reach the store
func TestFactEvaluator_PersistsFilteredClaims(t *testing.T) {
	store := newTestStore(t)
	client := &stubClient{response: "```json\n" + `[
  {"claim": "runs a node", "type": "fact", "in_bio": false, "already_known": false},
  {"claim": "is tired", "type": "status", "in_bio": false, "already_known": false},
  {"claim": "owns a ledger", "type": "fact", "in_bio": false, "already_known": false}
]` + "\n```"}
	ev := NewFactEvaluator(factsConfig(4), client, store)

	msg := bus.NewMessage(bus.RoomID("persist-room"), uuid.New(), uuid.New(), bus.Content{Text: "hi"})
	if err := ev.Evaluate(context.Background(), msg, state.State{}); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	count, err := store.CountFacts(context.Background(), msg.RoomID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 persisted facts, got %d", count)
	}
}

// TestFactEvaluator_PacingBetweenInserts verifies sequential writes are spaced out
func TestFactEvaluator_PacingBetweenInserts(t *testing.T) {
	store := newTestStore(t)
	client := &stubClient{response: "```json\n" + `[
  {"claim": "first fact", "type": "fact", "in_bio": false, "already_known": false},
  {"claim": "second fact", "type": "fact", "in_bio": false, "already_known": false}
]` + "\n```"}
	ev := NewFactEvaluator(factsConfig(4), client, store)
	ev.PacingDelay = 50 * time.Millisecond

	msg := bus.NewMessage(bus.RoomID("pacing-room"), uuid.New(), uuid.New(), bus.Content{Text: "hi"})

	start := time.Now()
	if err := ev.Evaluate(context.Background(), msg, state.State{}); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("two inserts finished in %v, pacing not applied", elapsed)
	}
}
