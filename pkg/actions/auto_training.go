package actions

import (
	"context"
	"fmt"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/learn"
	"github.com/seilorhq/faithagent/pkg/state"
)

// AutoTrainingAction runs the self-learning pipeline on demand and reports
// every stage's output in one message.
type AutoTrainingAction struct {
	pipeline  *learn.Pipeline
	hasSearch bool
}

func NewAutoTrainingAction(pipeline *learn.Pipeline, hasSearch bool) *AutoTrainingAction {
	return &AutoTrainingAction{pipeline: pipeline, hasSearch: hasSearch}
}

func (a *AutoTrainingAction) Name() string { return "AUTO_TRAINING" }

func (a *AutoTrainingAction) Similes() []string {
	return []string{"SELF_LEARNING", "MODEL_UPDATE", "AUTOMATIC_TRAINING", "MODEL_TRAINING", "TRAINING"}
}

func (a *AutoTrainingAction) Description() string {
	return "Automatically train the model based on new data or interactions. This action triggers the agent to enter a self-learning mode."
}

func (a *AutoTrainingAction) Examples() []string {
	return []string{
		"Time to update your knowledge base",
		"Learn from our latest conversation",
		"Start self-learning process",
		"Upgrade your knowledge",
	}
}

func (a *AutoTrainingAction) Validate(ctx context.Context, msg bus.Message) bool {
	return a.pipeline != nil && a.hasSearch
}

func (a *AutoTrainingAction) Handle(ctx context.Context, msg bus.Message, st state.State) ([]bus.Outcome, error) {
	result, err := a.pipeline.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run learning pipeline: %w", err)
	}

	text := fmt.Sprintf(`randomTopic: %s
------------------------------------------------------------------
knowledge: %s
------------------------------------------------------------------
fullData: %s
------------------------------------------------------------------
newTweetContent: %s`, result.Topic, result.Knowledge, result.Digest, result.Post)

	return []bus.Outcome{{Text: text, Success: true}}, nil
}
