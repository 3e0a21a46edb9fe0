// Package reply rewrites raw handler messages into the agent's voice before
// they reach the user.
package reply

import (
	"context"
	"strings"

	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/prompt"
	"github.com/seilorhq/faithagent/pkg/providers"
	"github.com/seilorhq/faithagent/pkg/state"
)

// Type selects which rendering template shapes the reply.
type Type int

const (
	// Normal is a plain informative reply.
	Normal Type = iota
	// Error softens a failure message; the template forbids leaking team or
	// user details.
	Error
)

// Service turns handler result text into conversational replies.
type Service struct {
	client providers.Client
}

func NewService(client providers.Client) *Service {
	return &Service{client: client}
}

// Generate rewrites rawMsg in the agent's voice. On any generation failure
// the raw message is returned unchanged so handlers always have something to
// say.
func (s *Service) Generate(ctx context.Context, st state.State, rawMsg string, replyType Type) string {
	if s == nil || s.client == nil {
		return rawMsg
	}

	template := prompt.ReplyTemplate
	if replyType == Error {
		template = prompt.ErrorReplyTemplate
	}

	scoped := st.Clone()
	scoped["replyMsg"] = rawMsg
	rendered := prompt.Compose(scoped, template)

	text, err := s.client.GenerateText(ctx, rendered, providers.TierSmall, nil)
	if err != nil {
		logger.WarnCF("reply", "Reply generation failed, using raw message",
			map[string]interface{}{"error": err.Error()})
		return rawMsg
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return rawMsg
	}
	return text
}
