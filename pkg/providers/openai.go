package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/seilorhq/faithagent/pkg/usage"
)

// OpenAIClient serves generation and embedding requests through the OpenAI
// API (or any compatible endpoint via APIBase).
type OpenAIClient struct {
	client         openai.Client
	smallModel     string
	largeModel     string
	embeddingModel string
	timeout        time.Duration
	usage          *usage.Store
}

func NewOpenAIClient(apiKey, apiBase, smallModel, largeModel, embeddingModel string, timeout time.Duration, usageStore *usage.Store) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if apiBase != "" {
		opts = append(opts, option.WithBaseURL(apiBase))
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIClient{
		client:         openai.NewClient(opts...),
		smallModel:     smallModel,
		largeModel:     largeModel,
		embeddingModel: embeddingModel,
		timeout:        timeout,
		usage:          usageStore,
	}
}

func (c *OpenAIClient) model(tier Tier) string {
	if tier == TierLarge {
		return c.largeModel
	}
	return c.smallModel
}

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string, tier Tier, stop []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.model(tier)
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if len(stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: stop}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty choices")
	}

	if c.usage != nil {
		c.usage.Add(usage.Record{
			Backend:          "openai",
			Model:            model,
			Tier:             string(tier),
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
			UsageKnown:       resp.Usage.TotalTokens > 0,
		})
	}

	return resp.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for text using the configured model.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding: empty response")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}
