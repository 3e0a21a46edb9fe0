package usage

import (
	"testing"
)

// TestStore_AddFillsDefaults verifies day key and totals are derived
func TestStore_AddFillsDefaults(t *testing.T) {
	s := NewStore("")
	s.Add(Record{Backend: "openai", Model: "gpt-4o", PromptTokens: 10, CompletionTokens: 5, UsageKnown: true})

	records := s.Query(Filter{})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.DayKey == "" {
		t.Error("day key should be derived")
	}
	if r.TotalTokens != 15 {
		t.Errorf("total should be derived, got %d", r.TotalTokens)
	}
	if r.Timestamp.IsZero() {
		t.Error("timestamp should be stamped")
	}
}

// TestStore_QueryByBackend verifies backend filtering is case-insensitive
func TestStore_QueryByBackend(t *testing.T) {
	s := NewStore("")
	s.Add(Record{Backend: "openai", UsageKnown: true, TotalTokens: 1})
	s.Add(Record{Backend: "anthropic", UsageKnown: true, TotalTokens: 1})

	records := s.Query(Filter{Backend: "OpenAI"})
	if len(records) != 1 || records[0].Backend != "openai" {
		t.Errorf("unexpected filter result: %+v", records)
	}
}

// TestStore_QueryLimitKeepsNewest verifies the limit trims from the front
func TestStore_QueryLimitKeepsNewest(t *testing.T) {
	s := NewStore("")
	for i := 0; i < 5; i++ {
		s.Add(Record{Backend: "openai", Model: "m", TotalTokens: i + 1, UsageKnown: true})
	}

	records := s.Query(Filter{Limit: 2})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].TotalTokens != 5 {
		t.Errorf("limit should keep the newest records, got %+v", records)
	}
}

// TestAggregateRecords verifies known and unknown usage are summed separately
func TestAggregateRecords(t *testing.T) {
	records := []Record{
		{UsageKnown: true, PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		{UsageKnown: true, PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30},
		{UsageKnown: false},
	}

	agg := AggregateRecords(records)
	if agg.Calls != 3 || agg.KnownCalls != 2 || agg.UnknownCalls != 1 {
		t.Errorf("unexpected call counts: %+v", agg)
	}
	if agg.TotalTokens != 45 {
		t.Errorf("unexpected total: %d", agg.TotalTokens)
	}
}

// TestStore_PersistsToDisk verifies records survive a reopen
func TestStore_PersistsToDisk(t *testing.T) {
	dir := t.TempDir()

	first := NewStore(dir)
	first.Add(Record{Backend: "openai", Model: "gpt-4o", TotalTokens: 7, UsageKnown: true})

	second := NewStore(dir)
	records := second.Query(Filter{})
	if len(records) != 1 || records[0].TotalTokens != 7 {
		t.Errorf("records should persist across reopen: %+v", records)
	}
}
