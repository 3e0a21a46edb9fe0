// Package state assembles the per-message snapshot rendered into prompts.
package state

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/config"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/memory"
)

// State maps template field names to values. Rebuilt per message, never
// persisted.
type State map[string]interface{}

// String returns the string form of a field, or "" when absent.
func (s State) String(key string) string {
	value, ok := s[key]
	if !ok || value == nil {
		return ""
	}
	if str, isString := value.(string); isString {
		return str
	}
	return fmt.Sprintf("%v", value)
}

// Clone returns a shallow copy so handlers can layer their own fields
// without mutating the shared snapshot.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Provider builds state snapshots by merging the agent profile, recent room
// history and caller-supplied overrides. Overrides win over derived values;
// derived values win over profile defaults.
type Provider struct {
	cfg         *config.Config
	store       *memory.Store
	recentCount int
}

func NewProvider(cfg *config.Config, store *memory.Store) *Provider {
	return &Provider{
		cfg:         cfg,
		store:       store,
		recentCount: 10,
	}
}

// Compose builds the snapshot for msg. A nil store yields a profile-only
// snapshot; history lookups that fail degrade to empty context.
func (p *Provider) Compose(ctx context.Context, msg bus.Message, overrides map[string]interface{}) State {
	st := State{}

	// Profile defaults.
	ch := p.cfg.Character
	st["agentName"] = p.cfg.Agent.Name
	st["twitterUserName"] = p.cfg.Agent.TwitterUserName
	st["bio"] = strings.Join(ch.Bio, "\n")
	st["lore"] = strings.Join(ch.Lore, "\n")
	st["topics"] = strings.Join(ch.Topics, ", ")
	st["characterPostExamples"] = strings.Join(ch.PostExamples, "\n")
	st["postDirections"] = strings.Join(ch.PostDirections, "\n")
	st["adjective"] = pick(ch.Adjectives)
	st["topic"] = pick(ch.Topics)
	st["maxPostLength"] = p.cfg.Agent.MaxPostLength

	// Derived from the current message and room history.
	st["agentId"] = msg.AgentID.String()
	st["roomId"] = msg.RoomID.String()
	st["currentMessage"] = msg.Content.Text

	if p.store != nil {
		if history, err := p.store.RecentMessages(ctx, msg.RoomID, p.recentCount); err != nil {
			logger.WarnCF("state", "Failed to load recent messages",
				map[string]interface{}{"room_id": msg.RoomID.String(), "error": err.Error()})
		} else {
			st["recentMessages"] = formatMessages(history)
		}

		if facts, err := p.store.RecentFacts(ctx, msg.RoomID, p.recentCount); err != nil {
			logger.WarnCF("state", "Failed to load known facts",
				map[string]interface{}{"room_id": msg.RoomID.String(), "error": err.Error()})
		} else {
			st["knownFacts"] = memory.FormatFacts(facts)
		}
	}

	// Caller overrides win.
	for k, v := range overrides {
		st[k] = v
	}

	return st
}

func formatMessages(history []bus.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		role := "user"
		if msg.UserID == msg.AgentID {
			role = "agent"
		}
		fmt.Fprintf(&sb, "%s: %s\n", role, msg.Content.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rand.Intn(len(options))]
}
