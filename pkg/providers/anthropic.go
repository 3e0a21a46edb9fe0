package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/seilorhq/faithagent/pkg/usage"
)

// AnthropicClient serves generation requests through the Anthropic Messages
// API. Embeddings are not offered; pair with an OpenAI embedder when fact
// deduplication is wanted.
type AnthropicClient struct {
	client     anthropic.Client
	smallModel string
	largeModel string
	timeout    time.Duration
	usage      *usage.Store
}

func NewAnthropicClient(apiKey, apiBase, smallModel, largeModel string, timeout time.Duration, usageStore *usage.Store) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if apiBase != "" {
		opts = append(opts, option.WithBaseURL(apiBase))
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AnthropicClient{
		client:     anthropic.NewClient(opts...),
		smallModel: smallModel,
		largeModel: largeModel,
		timeout:    timeout,
		usage:      usageStore,
	}
}

func (c *AnthropicClient) model(tier Tier) string {
	if tier == TierLarge {
		return c.largeModel
	}
	return c.smallModel
}

func (c *AnthropicClient) GenerateText(ctx context.Context, prompt string, tier Tier, stop []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.model(tier)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if len(stop) > 0 {
		params.StopSequences = stop
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if c.usage != nil {
		c.usage.Add(usage.Record{
			Backend:          "anthropic",
			Model:            model,
			Tier:             string(tier),
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			UsageKnown:       resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0,
		})
	}

	return sb.String(), nil
}
