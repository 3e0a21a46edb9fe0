package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/state"
	"github.com/seilorhq/faithagent/pkg/web3"
)

// QueryPointsAction reports a user's faith points balance.
type QueryPointsAction struct {
	backend *web3.Client
}

func NewQueryPointsAction(backend *web3.Client) *QueryPointsAction {
	return &QueryPointsAction{backend: backend}
}

func (a *QueryPointsAction) Name() string { return "QUERY_POINTS" }

func (a *QueryPointsAction) Similes() []string {
	return []string{"CHECK_POINTS", "POINTS_QUERY", "POINTS_FAITH_QUERY"}
}

func (a *QueryPointsAction) Description() string {
	return "Query points for a user"
}

func (a *QueryPointsAction) Examples() []string {
	return []string{
		"Query my faith points.",
		"Query my faith points for account 0x322554076C183838bEF26F1Ba013b150eaf5Ae54",
		"Can you check how many faith points I have accumulated on my account?",
		"How many faith points do I have?",
	}
}

func (a *QueryPointsAction) Validate(ctx context.Context, msg bus.Message) bool {
	return a.backend != nil && a.backend.Configured()
}

func (a *QueryPointsAction) Handle(ctx context.Context, msg bus.Message, st state.State) ([]bus.Outcome, error) {
	userAddress := st.String("userAddress")
	if userAddress == "" {
		logger.ErrorC("actions", "Invalid user address.")
		return []bus.Outcome{bus.Failure("Invalid your address.", "Invalid your address.")}, nil
	}

	points, err := a.backend.FindUserPoints(ctx, userAddress)
	if err != nil {
		var bizErr *web3.BizError
		if errors.As(err, &bizErr) {
			logger.ErrorCF("actions", "Faith points not found",
				map[string]interface{}{"user_address": userAddress, "error": bizErr.Message})
			return []bus.Outcome{bus.Failure(
				fmt.Sprintf("The address(%s) faith points is not found.", userAddress),
				bizErr.Message)}, nil
		}
		return nil, fmt.Errorf("query faith points: %w", err)
	}

	return []bus.Outcome{{
		Text: fmt.Sprintf("The address(%s) faith points is found. The total points is %v.",
			userAddress, points.UserPoints),
		WebAction: &bus.WebAction{
			Step:    "queryFaithPointsStep",
			Details: points,
		},
		Success: true,
	}}, nil
}
