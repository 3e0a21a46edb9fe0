package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/config"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/memory"
	"github.com/seilorhq/faithagent/pkg/prompt"
	"github.com/seilorhq/faithagent/pkg/providers"
	"github.com/seilorhq/faithagent/pkg/state"
)

// Claim is one extraction-model assertion about the conversation.
type Claim struct {
	Claim        string `json:"claim"`
	Type         string `json:"type"`
	InBio        bool   `json:"in_bio"`
	AlreadyKnown bool   `json:"already_known"`
}

// FilterClaims keeps only new, durable facts: claims typed "fact" that the
// model did not flag as biographical or already known, with non-blank text.
func FilterClaims(claims []Claim) []Claim {
	kept := make([]Claim, 0, len(claims))
	for _, c := range claims {
		if c.Type != "fact" || c.InBio || c.AlreadyKnown {
			continue
		}
		if strings.TrimSpace(c.Claim) == "" {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// FactEvaluator extracts durable facts from the conversation every half
// conversation length and persists the new ones.
type FactEvaluator struct {
	cfg    *config.Config
	client providers.Client
	store  *memory.Store

	// PacingDelay spaces out sequential fact inserts so embedding calls do
	// not burst against the provider.
	PacingDelay time.Duration
}

func NewFactEvaluator(cfg *config.Config, client providers.Client, store *memory.Store) *FactEvaluator {
	pacing := time.Duration(cfg.Evaluator.FactPacingMS) * time.Millisecond
	if pacing <= 0 {
		pacing = 250 * time.Millisecond
	}
	return &FactEvaluator{
		cfg:         cfg,
		client:      client,
		store:       store,
		PacingDelay: pacing,
	}
}

func (e *FactEvaluator) Name() string { return "extract_facts" }

// Validate triggers when the room's message count lands on a multiple of
// half the configured conversation length. A non-positive reflection count
// disables the evaluator rather than triggering on every message.
func (e *FactEvaluator) Validate(ctx context.Context, msg bus.Message) bool {
	if e.client == nil || e.store == nil {
		return false
	}

	count, err := e.store.CountMessages(ctx, msg.RoomID)
	if err != nil {
		logger.WarnCF("evaluator", "Failed to count room messages",
			map[string]interface{}{"room_id": msg.RoomID.String(), "error": err.Error()})
		return false
	}

	reflectionCount := int(math.Ceil(float64(e.cfg.Agent.ConversationLength) / 2))
	if reflectionCount <= 0 {
		return false
	}
	return count%reflectionCount == 0
}

// Evaluate extracts claims, filters them and persists the survivors in
// order. Unparseable model output yields zero facts, not an error.
func (e *FactEvaluator) Evaluate(ctx context.Context, msg bus.Message, st state.State) error {
	rendered := prompt.Compose(st, prompt.FactsTemplate)

	var claims []Claim
	if err := providers.GenerateObject(ctx, e.client, rendered, providers.TierSmall, &claims); err != nil {
		if errors.Is(err, providers.ErrSchemaMismatch) {
			logger.WarnCF("evaluator", "Unparseable fact extraction output, skipping",
				map[string]interface{}{"room_id": msg.RoomID.String()})
			return nil
		}
		return fmt.Errorf("extract claims: %w", err)
	}

	kept := FilterClaims(claims)
	if len(kept) == 0 {
		return nil
	}
	logger.InfoCF("evaluator", "Extracted new facts",
		map[string]interface{}{"room_id": msg.RoomID.String(), "count": len(kept)})

	for i, claim := range kept {
		if i > 0 {
			select {
			case <-time.After(e.PacingDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		fact := memory.Fact{
			RoomID:  msg.RoomID,
			AgentID: msg.AgentID,
			Text:    claim.Claim,
		}
		if err := e.store.CreateFact(ctx, fact, true); err != nil {
			return fmt.Errorf("persist fact: %w", err)
		}
	}
	return nil
}
