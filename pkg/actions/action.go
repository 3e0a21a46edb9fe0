// Package actions holds the agent's capability registry and dispatcher.
//
// An action is a named capability with aliases. Registration order is
// significant: when no explicit intent resolves, the dispatcher offers the
// message to actions in the order they were registered and runs the first
// one that accepts it.
package actions

import (
	"context"
	"errors"
	"strings"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/state"
)

// ErrDuplicateAction reports a second registration under an existing name.
var ErrDuplicateAction = errors.New("action already registered")

// Action is one capability the agent can perform.
type Action interface {
	// Name is the canonical intent, conventionally SCREAMING_SNAKE.
	Name() string
	// Similes are alternate intents resolving to this action. When two
	// actions claim the same simile, the first registered wins.
	Similes() []string
	Description() string
	// Examples are sample user utterances that should route here.
	Examples() []string
	// Validate reports whether the action can run for this message. It must
	// be cheap and side-effect free.
	Validate(ctx context.Context, msg bus.Message) bool
	// Handle performs the capability and returns the outcomes to deliver.
	Handle(ctx context.Context, msg bus.Message, st state.State) ([]bus.Outcome, error)
}

// Registry keeps actions in registration order and resolves intents.
type Registry struct {
	ordered []Action
	byName  map[string]Action
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Action),
	}
}

// NormalizeIntent maps free-form intent text to registry form.
func NormalizeIntent(intent string) string {
	return strings.ToUpper(strings.TrimSpace(intent))
}

// Register adds an action. The canonical name must be unique; similes that
// collide with an earlier registration are ignored so the earlier binding
// stays stable.
func (r *Registry) Register(action Action) error {
	name := NormalizeIntent(action.Name())
	if name == "" {
		return errors.New("action name is empty")
	}
	if _, exists := r.byName[name]; exists {
		return ErrDuplicateAction
	}

	r.byName[name] = action
	r.ordered = append(r.ordered, action)

	for _, simile := range action.Similes() {
		key := NormalizeIntent(simile)
		if key == "" {
			continue
		}
		if _, taken := r.byName[key]; !taken {
			r.byName[key] = action
		}
	}
	return nil
}

// Resolve returns the action bound to intent, by name or simile.
func (r *Registry) Resolve(intent string) (Action, bool) {
	action, ok := r.byName[NormalizeIntent(intent)]
	return action, ok
}

// List returns actions in registration order.
func (r *Registry) List() []Action {
	out := make([]Action, len(r.ordered))
	copy(out, r.ordered)
	return out
}
