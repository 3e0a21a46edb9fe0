package providers

import (
	"fmt"
	"strings"
	"time"

	"github.com/seilorhq/faithagent/pkg/config"
	"github.com/seilorhq/faithagent/pkg/memory"
	"github.com/seilorhq/faithagent/pkg/usage"
)

// NewClientFromConfig builds the generation client named by
// cfg.Providers.Generation.Backend.
func NewClientFromConfig(cfg *config.Config, usageStore *usage.Store) (Client, error) {
	gen := cfg.Providers.Generation
	timeout := time.Duration(gen.TimeoutSeconds) * time.Second

	switch strings.ToLower(gen.Backend) {
	case "", "openai":
		if cfg.Providers.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai backend selected but no API key configured")
		}
		return NewOpenAIClient(
			cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.APIBase,
			gen.SmallModel, gen.LargeModel, gen.EmbeddingModel,
			timeout, usageStore,
		), nil
	case "anthropic":
		if cfg.Providers.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("anthropic backend selected but no API key configured")
		}
		return NewAnthropicClient(
			cfg.Providers.Anthropic.APIKey, cfg.Providers.Anthropic.APIBase,
			gen.SmallModel, gen.LargeModel,
			timeout, usageStore,
		), nil
	default:
		return nil, fmt.Errorf("unknown generation backend: %s", gen.Backend)
	}
}

// NewEmbedderFromConfig builds the embedder used for fact deduplication.
// Embeddings always go through OpenAI; returns nil (no dedup) when no OpenAI
// key is configured.
func NewEmbedderFromConfig(cfg *config.Config, usageStore *usage.Store) memory.Embedder {
	if cfg.Providers.OpenAI.APIKey == "" {
		return nil
	}
	gen := cfg.Providers.Generation
	return NewOpenAIClient(
		cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.APIBase,
		gen.SmallModel, gen.LargeModel, gen.EmbeddingModel,
		time.Duration(gen.TimeoutSeconds)*time.Second, usageStore,
	)
}
