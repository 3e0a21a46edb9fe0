package actions

import (
	"context"
	"fmt"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/state"
)

// Dispatcher routes a message to at most one action and normalizes every
// failure mode into an outcome. Handler errors and panics never escape:
// the caller always receives a deliverable outcome list.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch selects and runs the action for msg.
//
// Selection: the message intent is matched against action names and similes
// in registration order, and the first claiming action whose Validate passes
// runs. A message with no intent, an unknown intent, or no validating
// claimant yields a successful no-op outcome; an unhandled message is not an
// error.
func (d *Dispatcher) Dispatch(ctx context.Context, msg bus.Message, st state.State) []bus.Outcome {
	action := d.selectAction(ctx, msg)
	if action == nil {
		logger.DebugCF("actions", "No action accepted message",
			map[string]interface{}{"intent": msg.Content.Action, "room_id": msg.RoomID.String()})
		return []bus.Outcome{bus.Noop()}
	}

	logger.InfoCF("actions", "Dispatching action",
		map[string]interface{}{"action": action.Name(), "room_id": msg.RoomID.String()})

	outcomes, err := d.run(ctx, action, msg, st)
	if err != nil {
		logger.ErrorCF("actions", "Action failed",
			map[string]interface{}{"action": action.Name(), "error": err.Error()})
		return []bus.Outcome{bus.Failure(
			fmt.Sprintf("Failed to run %s.", action.Name()), err.Error())}
	}
	if len(outcomes) == 0 {
		return []bus.Outcome{bus.Noop()}
	}
	return outcomes
}

func (d *Dispatcher) selectAction(ctx context.Context, msg bus.Message) Action {
	intent := NormalizeIntent(msg.Content.Action)
	if intent == "" {
		return nil
	}
	for _, action := range d.registry.List() {
		if claims(action, intent) && action.Validate(ctx, msg) {
			return action
		}
	}
	return nil
}

func claims(action Action, intent string) bool {
	if NormalizeIntent(action.Name()) == intent {
		return true
	}
	for _, simile := range action.Similes() {
		if NormalizeIntent(simile) == intent {
			return true
		}
	}
	return false
}

// run isolates handler panics.
func (d *Dispatcher) run(ctx context.Context, action Action, msg bus.Message, st state.State) (outcomes []bus.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcomes = nil
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return action.Handle(ctx, msg, st)
}
