// Package evaluator runs post-dispatch reflection over handled messages.
package evaluator

import (
	"context"
	"fmt"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/state"
)

// Evaluator inspects a handled message and updates agent memory.
type Evaluator interface {
	Name() string
	// Validate is the trigger policy: it reports whether this message
	// warrants an evaluation pass.
	Validate(ctx context.Context, msg bus.Message) bool
	Evaluate(ctx context.Context, msg bus.Message, st state.State) error
}

// Scheduler runs every triggered evaluator after a message is dispatched.
// Evaluator failures are logged and contained; they never affect message
// handling.
type Scheduler struct {
	evaluators []Evaluator
}

func NewScheduler(evaluators ...Evaluator) *Scheduler {
	return &Scheduler{evaluators: evaluators}
}

func (s *Scheduler) Run(ctx context.Context, msg bus.Message, st state.State) {
	for _, ev := range s.evaluators {
		if !ev.Validate(ctx, msg) {
			continue
		}
		logger.DebugCF("evaluator", "Running evaluator",
			map[string]interface{}{"evaluator": ev.Name(), "room_id": msg.RoomID.String()})
		if err := s.run(ctx, ev, msg, st); err != nil {
			logger.ErrorCF("evaluator", "Evaluator failed",
				map[string]interface{}{"evaluator": ev.Name(), "error": err.Error()})
		}
	}
}

func (s *Scheduler) run(ctx context.Context, ev Evaluator, msg bus.Message, st state.State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluator panicked: %v", r)
		}
	}()
	return ev.Evaluate(ctx, msg, st)
}
