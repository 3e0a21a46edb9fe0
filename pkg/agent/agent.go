// Package agent wires the message loop: consume inbound messages, dispatch
// the matching capability, deliver outcomes and run post-dispatch
// evaluation.
package agent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seilorhq/faithagent/pkg/actions"
	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/config"
	"github.com/seilorhq/faithagent/pkg/evaluator"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/memory"
	"github.com/seilorhq/faithagent/pkg/state"
)

// Agent owns one conversation loop. Message handling is sequential; a
// message's outcomes are published before the next message is consumed.
type Agent struct {
	cfg        *config.Config
	msgBus     *bus.MessageBus
	store      *memory.Store
	states     *state.Provider
	dispatcher *actions.Dispatcher
	evaluators *evaluator.Scheduler
	agentID    uuid.UUID

	messageTimeout time.Duration
}

func New(cfg *config.Config, msgBus *bus.MessageBus, store *memory.Store,
	states *state.Provider, dispatcher *actions.Dispatcher, evaluators *evaluator.Scheduler) *Agent {
	return &Agent{
		cfg:            cfg,
		msgBus:         msgBus,
		store:          store,
		states:         states,
		dispatcher:     dispatcher,
		evaluators:     evaluators,
		agentID:        bus.RoomID("agent-" + cfg.Agent.Name),
		messageTimeout: 2 * time.Minute,
	}
}

// AgentID is the stable identity derived from the configured agent name.
func (a *Agent) AgentID() uuid.UUID {
	return a.agentID
}

// Run consumes inbound messages until ctx is cancelled. Handling failures
// are contained per message; the loop itself never exits on an error.
func (a *Agent) Run(ctx context.Context) error {
	logger.InfoCF("agent", "Agent loop started",
		map[string]interface{}{"agent": a.cfg.Agent.Name})

	for {
		msg, ok := a.msgBus.ConsumeInbound(ctx)
		if !ok {
			if ctx.Err() != nil {
				logger.InfoC("agent", "Agent loop stopping")
				return ctx.Err()
			}
			continue
		}
		a.handle(ctx, msg)
	}
}

func (a *Agent) handle(ctx context.Context, msg bus.Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("agent", "Recovered from panic while handling message",
				map[string]interface{}{"message_id": msg.ID.String(), "panic": r})
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, a.messageTimeout)
	defer cancel()

	if msg.AgentID == uuid.Nil {
		msg.AgentID = a.agentID
	}

	if a.store != nil {
		if err := a.store.AddMessage(ctx, msg); err != nil {
			logger.WarnCF("agent", "Failed to persist message",
				map[string]interface{}{"message_id": msg.ID.String(), "error": err.Error()})
		}
	}

	st := a.states.Compose(ctx, msg, nil)

	outcomes := a.dispatcher.Dispatch(ctx, msg, st)
	for _, outcome := range outcomes {
		if outcome.IsNoop() {
			continue
		}
		a.msgBus.PublishOutbound(bus.Delivery{RoomID: msg.RoomID, Outcome: outcome})
	}

	if a.evaluators != nil {
		a.evaluators.Run(ctx, msg, st)
	}
}
