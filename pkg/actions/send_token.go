package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/prompt"
	"github.com/seilorhq/faithagent/pkg/providers"
	"github.com/seilorhq/faithagent/pkg/reply"
	"github.com/seilorhq/faithagent/pkg/state"
	"github.com/seilorhq/faithagent/pkg/web3"
)

// SendTokenContent is extracted from the conversation before a transfer is
// prepared. Token carries the resolved token once the backend lookup
// succeeds.
type SendTokenContent struct {
	Amount      FlexString        `json:"amount"`
	TokenSymbol string            `json:"tokenSymbol"`
	Recipient   string            `json:"recipient"`
	Token       *web3.SampleToken `json:"token,omitempty"`
}

// Valid checks the extracted fields before any backend call is made.
func (c *SendTokenContent) Valid() bool {
	return len(c.TokenSymbol) > 1 &&
		isWalletAddress(c.Recipient) &&
		c.Amount != ""
}

// SendTokenAction prepares a token transfer: it extracts the request from
// the conversation, resolves the token on the backend and hands the signing
// step to the frontend.
type SendTokenAction struct {
	backend *web3.Client
	client  providers.Client
	replies *reply.Service
}

func NewSendTokenAction(backend *web3.Client, client providers.Client, replies *reply.Service) *SendTokenAction {
	return &SendTokenAction{backend: backend, client: client, replies: replies}
}

func (a *SendTokenAction) Name() string { return "SEND_TOKEN" }

func (a *SendTokenAction) Similes() []string {
	return []string{"SEND_TOKENS", "TOKEN_TRANSFER", "MOVE_TOKEN"}
}

func (a *SendTokenAction) Description() string {
	return "Send token to another address"
}

func (a *SendTokenAction) Examples() []string {
	return []string{
		"Transfer 1 $lzSEILOR to 0x322554076C183838bEF26F1Ba013b150eaf5Ae54",
		"Send 1 $lzSEILOR to 0x322554076C183838bEF26F1Ba013b150eaf5Ae54",
	}
}

func (a *SendTokenAction) Validate(ctx context.Context, msg bus.Message) bool {
	return a.backend != nil && a.backend.Configured() && a.client != nil
}

func (a *SendTokenAction) Handle(ctx context.Context, msg bus.Message, st state.State) ([]bus.Outcome, error) {
	rendered := prompt.Compose(st, prompt.SendTokenTemplate)

	var content SendTokenContent
	if err := providers.GenerateObject(ctx, a.client, rendered, providers.TierSmall, &content); err != nil {
		return nil, fmt.Errorf("extract send token content: %w", err)
	}

	if !content.Valid() {
		logger.ErrorC("actions", "Invalid content for SEND_TOKEN action.")
		text := a.replies.Generate(ctx, st,
			"Unable to process send token request. Invalid content provided.", reply.Error)
		return []bus.Outcome{bus.Failure(text, "Invalid send token content")}, nil
	}

	symbol := stripSymbolPrefix(content.TokenSymbol)
	token, err := a.backend.FindTokenBySymbol(ctx, symbol)
	if err != nil {
		var bizErr *web3.BizError
		if errors.As(err, &bizErr) {
			logger.ErrorCF("actions", "Token not found",
				map[string]interface{}{"symbol": symbol, "error": bizErr.Message})
			text := a.replies.Generate(ctx, st,
				fmt.Sprintf("Connect web error. Error details: %s", bizErr.Message), reply.Error)
			return []bus.Outcome{bus.Failure(text, bizErr.Message)}, nil
		}
		return nil, fmt.Errorf("find token by symbol: %w", err)
	}

	content.Token = token
	text := a.replies.Generate(ctx, st,
		fmt.Sprintf("Find the token(%s) successfully,you can send token now.", token.Symbol),
		reply.Normal)

	return []bus.Outcome{{
		Text: text,
		WebAction: &bus.WebAction{
			Step:    "sendTokenStep",
			Details: content,
		},
		Success: true,
	}}, nil
}
