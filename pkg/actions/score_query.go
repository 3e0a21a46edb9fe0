package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/prompt"
	"github.com/seilorhq/faithagent/pkg/providers"
	"github.com/seilorhq/faithagent/pkg/state"
	"github.com/seilorhq/faithagent/pkg/web3"
)

// ScoreQueryContent is extracted from the conversation.
type ScoreQueryContent struct {
	QueryAddress string `json:"queryAddress"`
}

// ScoreQueryAction queries a user's faith score from the score service and
// reports any pending airdrop.
type ScoreQueryAction struct {
	backend *web3.Client
	client  providers.Client
}

func NewScoreQueryAction(backend *web3.Client, client providers.Client) *ScoreQueryAction {
	return &ScoreQueryAction{backend: backend, client: client}
}

func (a *ScoreQueryAction) Name() string { return "SCORE_QUERY" }

func (a *ScoreQueryAction) Similes() []string {
	return []string{"QUERY_SCORE", "QUERY_FAITH_SCORE"}
}

func (a *ScoreQueryAction) Description() string {
	return "Query the score of a user based on their address."
}

func (a *ScoreQueryAction) Examples() []string {
	return []string{
		"What is the faith score of 0x1234567890abcdef?",
		"Can you check the faith score for 0xabcdef1234567890?",
		"Please find the faith score of the address 0x0987654321fedcba.",
	}
}

func (a *ScoreQueryAction) Validate(ctx context.Context, msg bus.Message) bool {
	return a.backend != nil && a.backend.ScoreConfigured() && a.client != nil
}

func (a *ScoreQueryAction) Handle(ctx context.Context, msg bus.Message, st state.State) ([]bus.Outcome, error) {
	rendered := prompt.Compose(st, prompt.ScoreQueryTemplate)

	var content ScoreQueryContent
	if err := providers.GenerateObject(ctx, a.client, rendered, providers.TierLarge, &content); err != nil {
		if errors.Is(err, providers.ErrSchemaMismatch) {
			return []bus.Outcome{bus.Failure(
				"I'm sorry, I couldn't understand the query. Please try again.",
				err.Error())}, nil
		}
		return nil, fmt.Errorf("extract score query content: %w", err)
	}
	if content.QueryAddress == "" {
		return []bus.Outcome{bus.Failure(
			"I'm sorry, I couldn't understand the query. Please try again.",
			"missing query address")}, nil
	}

	score, err := a.backend.QueryScore(ctx, content.QueryAddress)
	if err != nil {
		var bizErr *web3.BizError
		if errors.As(err, &bizErr) {
			logger.ErrorCF("actions", "Score query rejected",
				map[string]interface{}{"query_address": content.QueryAddress, "error": bizErr.Message})
			return []bus.Outcome{bus.Failure(
				"Failed to query the score. Please check the logs for more details.",
				bizErr.Message)}, nil
		}
		return nil, fmt.Errorf("query score: %w", err)
	}

	text := fmt.Sprintf(`Querying the score successfully:
- Query Address: %s
- score: %v
- airdrop amount: %v`, content.QueryAddress, score.UserScore, score.AirdropAmount)
	if score.AirdropAmount > 0 {
		text += "\n- An airdrop is pending for this address."
	}

	return []bus.Outcome{{Text: text, Success: true}}, nil
}
