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

// SwapTokenContent is extracted from the conversation before a swap is
// prepared. PairInfo carries the resolved pair once the backend lookup
// succeeds.
type SwapTokenContent struct {
	Amount          FlexString     `json:"amount"`
	FromTokenSymbol string         `json:"fromTokenSymbol"`
	ToTokenSymbol   string         `json:"toTokenSymbol"`
	PairInfo        *web3.SwapPair `json:"pairInfo,omitempty"`
}

// Valid checks the extracted fields before any backend call is made.
func (c *SwapTokenContent) Valid() bool {
	return len(c.FromTokenSymbol) > 1 &&
		len(c.ToTokenSymbol) > 1 &&
		c.Amount != ""
}

// SwapTokenAction prepares a same-chain token swap: it extracts the request,
// resolves the uniswap-v2 pair on the backend and hands the signing step to
// the frontend.
type SwapTokenAction struct {
	backend *web3.Client
	client  providers.Client
}

func NewSwapTokenAction(backend *web3.Client, client providers.Client) *SwapTokenAction {
	return &SwapTokenAction{backend: backend, client: client}
}

func (a *SwapTokenAction) Name() string { return "SWAP_TOKEN" }

func (a *SwapTokenAction) Similes() []string {
	return []string{"TOKEN_SWAP", "EXCHANGE_TOKENS", "TRADE_TOKENS"}
}

func (a *SwapTokenAction) Description() string {
	return "Swap tokens on the same chain"
}

func (a *SwapTokenAction) Examples() []string {
	return []string{
		"Swap 10 $VIRTUAL to $lzSEILOR",
	}
}

func (a *SwapTokenAction) Validate(ctx context.Context, msg bus.Message) bool {
	return a.backend != nil && a.backend.Configured() && a.client != nil
}

func (a *SwapTokenAction) Handle(ctx context.Context, msg bus.Message, st state.State) ([]bus.Outcome, error) {
	rendered := prompt.Compose(st, prompt.SwapTokenTemplate)

	var content SwapTokenContent
	if err := providers.GenerateObject(ctx, a.client, rendered, providers.TierSmall, &content); err != nil {
		return nil, fmt.Errorf("extract swap token content: %w", err)
	}

	if !content.Valid() {
		logger.ErrorC("actions", "Invalid content for SWAP_TOKEN action.")
		return []bus.Outcome{bus.Failure(
			"Unable to process send token request. Invalid content provided.",
			"Invalid swap token content")}, nil
	}

	pair, err := a.backend.FindSwapTokens(ctx,
		content.FromTokenSymbol, content.ToTokenSymbol, content.Amount.String())
	if err != nil {
		var bizErr *web3.BizError
		if errors.As(err, &bizErr) {
			logger.ErrorCF("actions", "Token pair not found",
				map[string]interface{}{
					"from":  content.FromTokenSymbol,
					"to":    content.ToTokenSymbol,
					"error": bizErr.Message,
				})
			return []bus.Outcome{bus.Failure(
				fmt.Sprintf("The token pair(%s to %s) is not found.",
					content.FromTokenSymbol, content.ToTokenSymbol),
				bizErr.Message)}, nil
		}
		return nil, fmt.Errorf("find swap tokens: %w", err)
	}

	content.PairInfo = pair
	return []bus.Outcome{{
		Text: fmt.Sprintf("The token pair is found, the pair address is %s", pair.PairAddress),
		WebAction: &bus.WebAction{
			Step:    "swapTokenStep",
			Details: content,
		},
		Success: true,
	}}, nil
}
