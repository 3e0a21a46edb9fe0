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

// OpenLootBoxAction fetches the merkle proof a user needs to open their loot
// box on the frontend.
type OpenLootBoxAction struct {
	backend *web3.Client
}

func NewOpenLootBoxAction(backend *web3.Client) *OpenLootBoxAction {
	return &OpenLootBoxAction{backend: backend}
}

func (a *OpenLootBoxAction) Name() string { return "OPEN_LOOT_BOX" }

func (a *OpenLootBoxAction) Similes() []string {
	return []string{"ACTIVATE_BOX_LOOT", "OPEN_BOX_REWARD", "LAUNCH_BOX_PRIZE", "TRIGGER_BOX_OPEN"}
}

func (a *OpenLootBoxAction) Description() string {
	return "Open a loot box"
}

func (a *OpenLootBoxAction) Examples() []string {
	return []string{
		"Open loot box.",
		"Open my loot box now.",
		"I'd like to open a loot box.",
		"Is it possible to open a loot box right now?",
	}
}

func (a *OpenLootBoxAction) Validate(ctx context.Context, msg bus.Message) bool {
	return a.backend != nil && a.backend.Configured()
}

func (a *OpenLootBoxAction) Handle(ctx context.Context, msg bus.Message, st state.State) ([]bus.Outcome, error) {
	userAddress := st.String("userAddress")
	if userAddress == "" {
		logger.ErrorC("actions", "Invalid user address.")
		return []bus.Outcome{bus.Failure("Invalid your address.", "Invalid your address.")}, nil
	}

	proof, err := a.backend.FindUserProof(ctx, userAddress)
	if err != nil {
		var bizErr *web3.BizError
		if errors.As(err, &bizErr) {
			logger.ErrorCF("actions", "Loot box proof not found",
				map[string]interface{}{"user_address": userAddress, "error": bizErr.Message})
			return []bus.Outcome{bus.Failure(
				fmt.Sprintf("The address(%s) loot box is not found.", userAddress),
				bizErr.Message)}, nil
		}
		return nil, fmt.Errorf("find loot box proof: %w", err)
	}

	return []bus.Outcome{{
		Text: "Here is your loot box.",
		WebAction: &bus.WebAction{
			Step:    "openLootBoxStep",
			Details: proof,
		},
		Success: true,
	}}, nil
}
